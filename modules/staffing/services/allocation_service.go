package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/act"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/appointment"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/bond"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/eligibility"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/position"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/eventbus"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/metrics"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

type AllocateParams struct {
	ServantID      uuid.UUID
	PositionID     uuid.UUID
	UnitID         *uuid.UUID
	NominationDate time.Time
	Act            act.Meta
}

// AllocationService commits appointments against position quotas. Every seat
// is handed out inside one transaction that locks the position row, so two
// requests racing for the last seat serialize and exactly one wins.
type AllocationService struct {
	positions    position.Repository
	appointments appointment.Repository
	bonds        bond.Repository
	servants     servant.Repository
	compat       *CompatibilityService
	tables       *eligibility.Table
	publisher    eventbus.EventBus
	clock        clockwork.Clock
	log          *logrus.Logger
	txTimeout    time.Duration
}

func NewAllocationService(
	positions position.Repository,
	appointments appointment.Repository,
	bonds bond.Repository,
	servants servant.Repository,
	compat *CompatibilityService,
	tables *eligibility.Table,
	publisher eventbus.EventBus,
	clock clockwork.Clock,
	log *logrus.Logger,
	txTimeout time.Duration,
) *AllocationService {
	return &AllocationService{
		positions:    positions,
		appointments: appointments,
		bonds:        bonds,
		servants:     servants,
		compat:       compat,
		tables:       tables,
		publisher:    publisher,
		clock:        clock,
		log:          log,
		txTimeout:    txTimeout,
	}
}

// Allocate creates an active appointment for the servant if a seat is free,
// the servant holds no other active appointment, the servant's bond type
// permits appointment, and the unit is compatible with the position.
func (s *AllocationService) Allocate(ctx context.Context, params AllocateParams) (*appointment.Appointment, error) {
	if params.ServantID == uuid.Nil {
		return nil, serrors.NewFieldRequiredError("servant_id")
	}
	if params.PositionID == uuid.Nil {
		return nil, serrors.NewFieldRequiredError("position_id")
	}
	if params.NominationDate.IsZero() {
		return nil, serrors.NewFieldRequiredError("nomination_date")
	}

	appt, err := composables.InTxResult(ctx, s.txTimeout, func(txCtx context.Context) (*appointment.Appointment, error) {
		return s.allocateTx(txCtx, params)
	})
	if err != nil {
		s.observeAllocation(err)
		return nil, err
	}

	s.observeAllocation(nil)
	s.log.WithFields(logrus.Fields{
		"appointment_id": appt.ID(),
		"servant_id":     appt.ServantID(),
		"position_id":    appt.PositionID(),
	}).Info("appointment allocated")
	s.publisher.Publish("appointment.allocated", appt)
	return appt, nil
}

func (s *AllocationService) allocateTx(ctx context.Context, params AllocateParams) (*appointment.Appointment, error) {
	// Lock ordering is servant first, then position, everywhere. Lifecycle
	// services take only the servant lock, so the two cannot deadlock.
	if err := s.servants.Lock(ctx, params.ServantID); err != nil {
		return nil, err
	}

	if _, err := s.appointments.GetActiveByServant(ctx, params.ServantID); err == nil {
		return nil, serrors.NewConflict("appointment-active", "servant already holds an active appointment")
	} else if !errors.Is(err, appointment.ErrNoActive) {
		return nil, err
	}

	activeBond, err := s.bonds.GetActiveByServant(ctx, params.ServantID)
	if err != nil && !errors.Is(err, bond.ErrNoActive) {
		return nil, err
	}
	if activeBond != nil && s.tables.BondTypeBlocksAppointment(string(activeBond.Type)) {
		return nil, serrors.NewForbidden(
			"incoming-secondment-no-appointment",
			"servants seconded in cannot receive a position appointment",
		)
	}

	pos, err := s.positions.GetByIDForUpdate(ctx, params.PositionID)
	if err != nil {
		return nil, err
	}

	unitID, err := s.selectUnit(ctx, params.PositionID, params.UnitID)
	if err != nil {
		return nil, err
	}

	// Authoritative occupancy check, re-derived under the position lock.
	occupied, err := s.appointments.CountActiveByPosition(ctx, params.PositionID)
	if err != nil {
		return nil, err
	}
	if occupied >= int64(pos.Quota) {
		return nil, serrors.NewConflict("no-vacancy", "position has no free seat")
	}

	appt := appointment.New(
		params.ServantID, params.PositionID, unitID,
		params.NominationDate, params.Act,
		s.clock.Now().UTC(),
	)
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// selectUnit applies the unit rules: a supplied unit must be compatible; an
// omitted unit is auto-assigned only when the compatibility set has exactly
// one member.
func (s *AllocationService) selectUnit(ctx context.Context, positionID uuid.UUID, unitID *uuid.UUID) (*uuid.UUID, error) {
	resolution, err := s.compat.ResolveCompatibleUnits(ctx, positionID)
	if err != nil {
		return nil, err
	}

	if unitID != nil {
		if !resolution.Contains(*unitID) {
			return nil, serrors.NewInvalid("unit-incompatible", "unit is not compatible with position")
		}
		return unitID, nil
	}

	if single, ok := resolution.Single(); ok {
		return &single, nil
	}
	if !resolution.Unrestricted && len(resolution.UnitIDs) == 0 {
		return nil, serrors.NewInvalid("unit-incompatible", "no unit is compatible with position")
	}
	return nil, serrors.NewInvalid("unit-required", "position is compatible with more than one unit")
}

// Close terminates an active appointment. Terminal: there is no reopening.
func (s *AllocationService) Close(ctx context.Context, id uuid.UUID, closingDate time.Time, reason appointment.ClosingReason, closeAct act.Meta) (*appointment.Appointment, error) {
	if !s.tables.ClosingReasonValid(string(reason)) {
		return nil, serrors.NewInvalid("closing-reason-unknown", "unknown closing reason")
	}

	appt, err := composables.InTxResult(ctx, s.txTimeout, func(txCtx context.Context) (*appointment.Appointment, error) {
		appt, err := s.appointments.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := appt.Close(closingDate, reason, closeAct, s.clock.Now().UTC()); err != nil {
			return nil, err
		}
		if err := s.appointments.Update(txCtx, appt); err != nil {
			return nil, err
		}
		return appt, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"appointment_id": appt.ID(),
		"reason":         reason,
	}).Info("appointment closed")
	s.publisher.Publish("appointment.closed", appt)
	return appt, nil
}

// RecordPossession fills the possession and exercise dates on an active
// appointment after the fact.
func (s *AllocationService) RecordPossession(ctx context.Context, id uuid.UUID, possessionDate, exerciseDate *time.Time) (*appointment.Appointment, error) {
	if possessionDate == nil && exerciseDate == nil {
		return nil, serrors.NewFieldRequiredError("possession_date")
	}

	return composables.InTxResult(ctx, s.txTimeout, func(txCtx context.Context) (*appointment.Appointment, error) {
		appt, err := s.appointments.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return nil, err
		}
		if err := appt.RecordPossession(possessionDate, exerciseDate, s.clock.Now().UTC()); err != nil {
			return nil, err
		}
		if err := s.appointments.Update(txCtx, appt); err != nil {
			return nil, err
		}
		return appt, nil
	})
}

func (s *AllocationService) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *AllocationService) ListByServant(ctx context.Context, servantID uuid.UUID) ([]*appointment.Appointment, error) {
	return s.appointments.ListByServant(ctx, servantID)
}

func (s *AllocationService) observeAllocation(err error) {
	if err == nil {
		metrics.ObserveAllocation("allocated")
		return
	}
	code := serrors.CodeOf(err)
	if code == "" {
		code = "error"
	}
	metrics.ObserveAllocation(code)
	if serrors.Retryable(err) {
		s.log.WithField("reason", code).Warn("allocation unavailable, caller should retry")
	}
}
