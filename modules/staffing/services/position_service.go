package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/position"
)

// PositionService is the read-only catalog of budgeted positions. Quota
// administration happens outside this engine.
type PositionService struct {
	repo position.Repository
}

func NewPositionService(repo position.Repository) *PositionService {
	return &PositionService{repo: repo}
}

func (s *PositionService) GetByID(ctx context.Context, id uuid.UUID) (*position.Position, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PositionService) ListByNature(ctx context.Context, nature position.Nature) ([]*position.Position, error) {
	return s.repo.ListByNature(ctx, nature)
}

func (s *PositionService) GetPaginated(ctx context.Context, params *position.FindParams) ([]*position.Position, error) {
	return s.repo.GetPaginated(ctx, params)
}
