package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/appointment"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/position"
)

// Availability is a point-in-time reading of a position's seat usage.
// Available can be negative after an administrative quota reduction below
// current occupancy; the engine reports that, it does not correct it.
type Availability struct {
	Quota     int
	Occupied  int
	Available int
}

// PositionAvailability is one row of the advisory listing shown to callers
// before they attempt an allocation.
type PositionAvailability struct {
	Position  *position.Position
	Available int
}

// VacancyService derives seat availability by counting active appointments
// against quota. All reads here are advisory and lock-free; the allocator
// re-derives occupancy under lock before committing.
type VacancyService struct {
	positions    position.Repository
	appointments appointment.Repository
	compat       *CompatibilityService
}

func NewVacancyService(
	positions position.Repository,
	appointments appointment.Repository,
	compat *CompatibilityService,
) *VacancyService {
	return &VacancyService{positions: positions, appointments: appointments, compat: compat}
}

func (s *VacancyService) ComputeAvailability(ctx context.Context, positionID uuid.UUID) (Availability, error) {
	pos, err := s.positions.GetByID(ctx, positionID)
	if err != nil {
		return Availability{}, err
	}
	occupied, err := s.appointments.CountActiveByPosition(ctx, positionID)
	if err != nil {
		return Availability{}, err
	}
	return Availability{
		Quota:     pos.Quota,
		Occupied:  int(occupied),
		Available: pos.Quota - int(occupied),
	}, nil
}

// ListAvailablePositions returns positions of the given nature with at least
// one free seat, sorted by name. A non-empty unitTypeFilter keeps only
// positions compatible with at least one unit of that type.
func (s *VacancyService) ListAvailablePositions(ctx context.Context, nature position.Nature, unitTypeFilter string) ([]PositionAvailability, error) {
	occupancies, err := s.positions.ListWithOccupancy(ctx, nature)
	if err != nil {
		return nil, err
	}

	var out []PositionAvailability
	for _, occ := range occupancies {
		available := occ.Available()
		if available <= 0 {
			continue
		}
		if unitTypeFilter != "" {
			ok, err := s.compatibleWithUnitType(ctx, occ.Position.ID, unitTypeFilter)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, PositionAvailability{Position: occ.Position, Available: available})
	}
	return out, nil
}

func (s *VacancyService) compatibleWithUnitType(ctx context.Context, positionID uuid.UUID, unitType string) (bool, error) {
	resolution, err := s.compat.ResolveCompatibleUnits(ctx, positionID)
	if err != nil {
		return false, err
	}
	if resolution.Unrestricted {
		return true, nil
	}
	for _, unitID := range resolution.UnitIDs {
		u, err := s.compat.units.GetByID(ctx, unitID)
		if err != nil {
			return false, err
		}
		if u.Type == unitType {
			return true, nil
		}
	}
	return false, nil
}
