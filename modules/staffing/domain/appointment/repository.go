package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

var (
	ErrNotFound = serrors.NewNotFound("appointment-not-found", "appointment not found")
	ErrNoActive = serrors.NewNotFound("appointment-no-active", "servant has no active appointment")
)

type FindParams struct {
	ServantID  uuid.UUID
	PositionID uuid.UUID
	Limit      int
	Offset     int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// GetByIDForUpdate locks the appointment row in the current transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// GetActiveByServant returns ErrNoActive when the servant has none.
	GetActiveByServant(ctx context.Context, servantID uuid.UUID) (*Appointment, error)
	ListByServant(ctx context.Context, servantID uuid.UUID) ([]*Appointment, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Appointment, error)
	// CountActiveByPosition derives current occupancy for a position. Only
	// authoritative when the caller holds the position row lock.
	CountActiveByPosition(ctx context.Context, positionID uuid.UUID) (int64, error)
	Create(ctx context.Context, data *Appointment) error
	Update(ctx context.Context, data *Appointment) error
}
