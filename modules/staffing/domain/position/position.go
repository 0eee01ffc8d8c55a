package position

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

type Nature string

const (
	NatureCareer           Nature = "career"
	NatureAppointed        Nature = "appointed"
	NatureGratifiedFunction Nature = "gratified-function"
	NatureTemporary        Nature = "temporary"
	NatureIntern           Nature = "intern"
)

func (n Nature) Valid() bool {
	switch n {
	case NatureCareer, NatureAppointed, NatureGratifiedFunction, NatureTemporary, NatureIntern:
		return true
	}
	return false
}

var ErrNotFound = serrors.NewNotFound("position-not-found", "position not found")

// Position is a budgeted seat class (cargo). Quota is the number of seats;
// occupancy is always derived by counting active appointments, never stored.
type Position struct {
	ID               uuid.UUID
	Name             string
	Nature           Nature
	Quota            int
	BaseCompensation decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type FindParams struct {
	Nature Nature
	Limit  int
	Offset int
}

// Occupancy pairs a position with its derived seat usage at read time. The
// numbers are advisory; allocation re-derives them under lock.
type Occupancy struct {
	Position *Position
	Occupied int
}

func (o Occupancy) Available() int {
	return o.Position.Quota - o.Occupied
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Position, error)
	// GetByIDForUpdate locks the position row for the duration of the
	// current transaction. This is the serialization point for allocation.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Position, error)
	ListByNature(ctx context.Context, nature Nature) ([]*Position, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Position, error)
	// ListWithOccupancy returns positions of the given nature (or all, if
	// empty) joined with their active-appointment counts, sorted by name.
	ListWithOccupancy(ctx context.Context, nature Nature) ([]Occupancy, error)
}
