package compatibility

import (
	"context"

	"github.com/google/uuid"
)

// Rule restricts a position to one explicit unit or to every unit of one
// type. Exactly one of UnitID and UnitType is set. A position with no rules
// is compatible with every unit.
type Rule struct {
	ID         uuid.UUID
	PositionID uuid.UUID
	UnitID     *uuid.UUID
	UnitType   string
}

// Resolution is the outcome of resolving a position's compatibility rules.
type Resolution struct {
	Unrestricted bool
	UnitIDs      []uuid.UUID
}

func Unrestricted() Resolution {
	return Resolution{Unrestricted: true}
}

func (r Resolution) Contains(unitID uuid.UUID) bool {
	if r.Unrestricted {
		return true
	}
	for _, id := range r.UnitIDs {
		if id == unitID {
			return true
		}
	}
	return false
}

// Single returns the sole compatible unit when the resolution pins the
// position down to exactly one.
func (r Resolution) Single() (uuid.UUID, bool) {
	if r.Unrestricted || len(r.UnitIDs) != 1 {
		return uuid.Nil, false
	}
	return r.UnitIDs[0], true
}

type Repository interface {
	ListByPosition(ctx context.Context, positionID uuid.UUID) ([]*Rule, error)
}
