// Package lifecycle holds the shared shape of the three dated status records
// (bond, placement, secondment): an interval with an active flag that is true
// iff the end date is unset, plus administrative-act metadata at both ends.
// Open/close invariant checking lives here once; per-type field validation
// stays with each record's policy.
package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/act"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

// State is embedded by every lifecycle record.
type State struct {
	ID        uuid.UUID
	ServantID uuid.UUID
	StartDate time.Time
	EndDate   *time.Time
	Active    bool
	OpenAct   act.Meta
	CloseAct  act.Meta
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Record interface {
	LifecycleState() *State
	// EntityName is the stable lowercase name used in error codes, event
	// topics and metrics labels ("bond", "placement", "secondment").
	EntityName() string
}

// Init stamps a fresh record with identity and timestamps before insertion.
func Init(r Record, now time.Time) {
	s := r.LifecycleState()
	s.ID = uuid.New()
	s.Active = true
	s.EndDate = nil
	s.CreatedAt = now
	s.UpdatedAt = now
}

// ValidateOpen checks the interval-independent open preconditions.
func ValidateOpen(r Record) error {
	s := r.LifecycleState()
	if s.ServantID == uuid.Nil {
		return serrors.NewFieldRequiredError("servant_id")
	}
	if s.StartDate.IsZero() {
		return serrors.NewFieldRequiredError("start_date")
	}
	return nil
}

// Close ends the record. Terminal: a closed record is never reactivated.
func Close(r Record, closingDate time.Time, closeAct act.Meta, now time.Time) error {
	s := r.LifecycleState()
	if !s.Active {
		return serrors.NewInvalid("not-active", r.EntityName()+" is not active")
	}
	if closingDate.Before(s.StartDate) {
		return serrors.NewInvalid("date-order", "closing date precedes start date")
	}
	s.Active = false
	s.EndDate = &closingDate
	s.CloseAct = closeAct
	s.UpdatedAt = now
	return nil
}

// Policy is the per-type validation hook applied at open time. The servant's
// category is supplied so policies can consult the eligibility tables.
type Policy[T Record] interface {
	ValidateOpen(record T, category servant.Category) error
}

type Repository[T Record] interface {
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (T, error)
	// GetActiveByServant returns the package-level no-active sentinel of the
	// concrete type when the servant has none.
	GetActiveByServant(ctx context.Context, servantID uuid.UUID) (T, error)
	ListByServant(ctx context.Context, servantID uuid.UUID) ([]T, error)
	Create(ctx context.Context, data T) error
	Update(ctx context.Context, data T) error
}
