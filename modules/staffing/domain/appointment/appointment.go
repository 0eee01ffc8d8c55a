package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/act"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

type ClosingReason string

const (
	ReasonResignation ClosingReason = "resignation"
	ReasonDismissal   ClosingReason = "dismissal"
	ReasonDeath       ClosingReason = "death"
	ReasonRetirement  ClosingReason = "retirement"
	ReasonEndOfTerm   ClosingReason = "end-of-term"
)

// Appointment is one servant's claim on one seat of a position (provimento).
// It leaves the active state exactly once, through Close, and never returns.
type Appointment struct {
	id             uuid.UUID
	servantID      uuid.UUID
	positionID     uuid.UUID
	unitID         *uuid.UUID
	status         Status
	nominationDate time.Time
	possessionDate *time.Time
	exerciseDate   *time.Time
	closingDate    *time.Time
	closingReason  ClosingReason
	openAct        act.Meta
	closeAct       act.Meta
	createdAt      time.Time
	updatedAt      time.Time
}

func New(servantID, positionID uuid.UUID, unitID *uuid.UUID, nominationDate time.Time, openAct act.Meta, now time.Time) *Appointment {
	return &Appointment{
		id:             uuid.New(),
		servantID:      servantID,
		positionID:     positionID,
		unitID:         unitID,
		status:         StatusActive,
		nominationDate: nominationDate,
		openAct:        openAct,
		createdAt:      now,
		updatedAt:      now,
	}
}

func Hydrate(
	id, servantID, positionID uuid.UUID,
	unitID *uuid.UUID,
	status Status,
	nominationDate time.Time,
	possessionDate, exerciseDate, closingDate *time.Time,
	closingReason ClosingReason,
	openAct, closeAct act.Meta,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:             id,
		servantID:      servantID,
		positionID:     positionID,
		unitID:         unitID,
		status:         status,
		nominationDate: nominationDate,
		possessionDate: possessionDate,
		exerciseDate:   exerciseDate,
		closingDate:    closingDate,
		closingReason:  closingReason,
		openAct:        openAct,
		closeAct:       closeAct,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (a *Appointment) ID() uuid.UUID              { return a.id }
func (a *Appointment) ServantID() uuid.UUID       { return a.servantID }
func (a *Appointment) PositionID() uuid.UUID      { return a.positionID }
func (a *Appointment) UnitID() *uuid.UUID         { return a.unitID }
func (a *Appointment) Status() Status             { return a.status }
func (a *Appointment) NominationDate() time.Time  { return a.nominationDate }
func (a *Appointment) PossessionDate() *time.Time { return a.possessionDate }
func (a *Appointment) ExerciseDate() *time.Time   { return a.exerciseDate }
func (a *Appointment) ClosingDate() *time.Time    { return a.closingDate }
func (a *Appointment) ClosingReason() ClosingReason { return a.closingReason }
func (a *Appointment) OpenAct() act.Meta          { return a.openAct }
func (a *Appointment) CloseAct() act.Meta         { return a.closeAct }
func (a *Appointment) CreatedAt() time.Time       { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time       { return a.updatedAt }

func (a *Appointment) IsActive() bool { return a.status == StatusActive }

// Close transitions the appointment to its terminal state.
func (a *Appointment) Close(closingDate time.Time, reason ClosingReason, closeAct act.Meta, now time.Time) error {
	if a.status != StatusActive {
		return serrors.NewInvalid("not-active", "appointment is not active")
	}
	if closingDate.Before(a.nominationDate) {
		return serrors.NewInvalid("date-order", "closing date precedes nomination date")
	}
	a.status = StatusClosed
	a.closingDate = &closingDate
	a.closingReason = reason
	a.closeAct = closeAct
	a.updatedAt = now
	return nil
}

// RecordPossession fills the possession and exercise dates that arrive after
// nomination. Either date may be recorded alone by passing nil for the other.
func (a *Appointment) RecordPossession(possessionDate, exerciseDate *time.Time, now time.Time) error {
	if a.status != StatusActive {
		return serrors.NewInvalid("not-active", "appointment is not active")
	}
	if possessionDate != nil && possessionDate.Before(a.nominationDate) {
		return serrors.NewInvalid("date-order", "possession date precedes nomination date")
	}
	if exerciseDate != nil {
		ref := a.possessionDate
		if possessionDate != nil {
			ref = possessionDate
		}
		if ref == nil {
			return serrors.NewInvalid("date-order", "exercise date requires a possession date")
		}
		if exerciseDate.Before(*ref) {
			return serrors.NewInvalid("date-order", "exercise date precedes possession date")
		}
	}
	if possessionDate != nil {
		a.possessionDate = possessionDate
	}
	if exerciseDate != nil {
		a.exerciseDate = exerciseDate
	}
	a.updatedAt = now
	return nil
}
