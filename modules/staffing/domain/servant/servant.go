package servant

import (
	"context"

	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

// Category is the servant-type classification constraining which operations
// are legal for a servant. Legality itself lives in the eligibility tables,
// not here.
type Category string

const (
	CategoryCareer             Category = "career"
	CategoryAppointed          Category = "appointed"
	CategoryIncomingSecondment Category = "incoming-secondment"
	CategoryOutgoingSecondment Category = "outgoing-secondment"
	CategoryTemporary          Category = "temporary"
	CategoryIntern             Category = "intern"
	CategoryRequisitioned      Category = "requisitioned"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCareer, CategoryAppointed, CategoryIncomingSecondment,
		CategoryOutgoingSecondment, CategoryTemporary, CategoryIntern,
		CategoryRequisitioned:
		return true
	}
	return false
}

var ErrNotFound = serrors.NewNotFound("servant-not-found", "servant not found")

// Servant is managed by the personnel registry; this engine only reads it.
type Servant struct {
	ID          uuid.UUID
	DisplayName string
	Category    Category
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Servant, error)
	// Lock takes a row lock on the servant for the duration of the current
	// transaction. Serializes concurrent lifecycle mutations for the same
	// servant.
	Lock(ctx context.Context, id uuid.UUID) error
}
