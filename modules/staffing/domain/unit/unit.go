package unit

import (
	"context"

	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

var ErrNotFound = serrors.NewNotFound("unit-not-found", "organizational unit not found")

// Unit is an organizational unit a servant can be placed in. Type groups
// units for compatibility rules (e.g. "secretariat", "regional-office").
type Unit struct {
	ID   uuid.UUID
	Name string
	Type string
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	ListByType(ctx context.Context, unitType string) ([]*Unit, error)
	GetAll(ctx context.Context) ([]*Unit, error)
}
