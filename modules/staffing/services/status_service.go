package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/appointment"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/bond"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/placement"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/secondment"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
)

// FunctionalStatus is the composed current state of a servant. Fields are
// nil when no active record of that type exists; that is a normal state, not
// an error.
type FunctionalStatus struct {
	Servant     *servant.Servant
	Bond        *bond.Bond
	Appointment *appointment.Appointment
	Placement   *placement.Placement
	Secondment  *secondment.Secondment
}

// StatusService is the pure read path over the four lifecycle managers. It
// enforces nothing; callers use it for display and precondition checks.
type StatusService struct {
	servants     servant.Repository
	bonds        bond.Repository
	appointments appointment.Repository
	placements   placement.Repository
	secondments  secondment.Repository
}

func NewStatusService(
	servants servant.Repository,
	bonds bond.Repository,
	appointments appointment.Repository,
	placements placement.Repository,
	secondments secondment.Repository,
) *StatusService {
	return &StatusService{
		servants:     servants,
		bonds:        bonds,
		appointments: appointments,
		placements:   placements,
		secondments:  secondments,
	}
}

func (s *StatusService) GetCurrentStatus(ctx context.Context, servantID uuid.UUID) (*FunctionalStatus, error) {
	srv, err := s.servants.GetByID(ctx, servantID)
	if err != nil {
		return nil, err
	}
	out := &FunctionalStatus{Servant: srv}

	out.Bond, err = s.bonds.GetActiveByServant(ctx, servantID)
	if err != nil && !errors.Is(err, bond.ErrNoActive) {
		return nil, err
	}
	out.Appointment, err = s.appointments.GetActiveByServant(ctx, servantID)
	if err != nil && !errors.Is(err, appointment.ErrNoActive) {
		return nil, err
	}
	out.Placement, err = s.placements.GetActiveByServant(ctx, servantID)
	if err != nil && !errors.Is(err, placement.ErrNoActive) {
		return nil, err
	}
	out.Secondment, err = s.secondments.GetActiveByServant(ctx, servantID)
	if err != nil && !errors.Is(err, secondment.ErrNoActive) {
		return nil, err
	}
	return out, nil
}
