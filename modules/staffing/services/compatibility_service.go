package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/compatibility"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/unit"
)

// CompatibilityService resolves which organizational units a position may be
// assigned to. No rules means unrestricted; otherwise the union of explicit
// unit rules and every unit matching a unit-type rule.
type CompatibilityService struct {
	rules compatibility.Repository
	units unit.Repository
}

func NewCompatibilityService(rules compatibility.Repository, units unit.Repository) *CompatibilityService {
	return &CompatibilityService{rules: rules, units: units}
}

func (s *CompatibilityService) ResolveCompatibleUnits(ctx context.Context, positionID uuid.UUID) (compatibility.Resolution, error) {
	rules, err := s.rules.ListByPosition(ctx, positionID)
	if err != nil {
		return compatibility.Resolution{}, err
	}
	if len(rules) == 0 {
		return compatibility.Unrestricted(), nil
	}

	seen := map[uuid.UUID]struct{}{}
	var out compatibility.Resolution
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out.UnitIDs = append(out.UnitIDs, id)
	}

	for _, rule := range rules {
		if rule.UnitID != nil {
			add(*rule.UnitID)
			continue
		}
		matched, err := s.units.ListByType(ctx, rule.UnitType)
		if err != nil {
			return compatibility.Resolution{}, err
		}
		for _, u := range matched {
			add(u.ID)
		}
	}
	return out, nil
}

func (s *CompatibilityService) IsCompatible(ctx context.Context, positionID, unitID uuid.UUID) (bool, error) {
	resolution, err := s.ResolveCompatibleUnits(ctx, positionID)
	if err != nil {
		return false, err
	}
	return resolution.Contains(unitID), nil
}
