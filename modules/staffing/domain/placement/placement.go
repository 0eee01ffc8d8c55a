package placement

import (
	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/eligibility"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/lifecycle"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

type Kind string

const (
	KindInternal Kind = "internal"
	KindExternal Kind = "external"
)

type MovementType string

const (
	MovementInitial        MovementType = "initial"
	MovementTransfer       MovementType = "transfer"
	MovementRemoval        MovementType = "removal"
	MovementDesignation    MovementType = "designation"
	MovementRedistribution MovementType = "redistribution"
)

func (m MovementType) Valid() bool {
	switch m {
	case MovementInitial, MovementTransfer, MovementRemoval, MovementDesignation, MovementRedistribution:
		return true
	}
	return false
}

var (
	ErrNotFound = serrors.NewNotFound("placement-not-found", "placement not found")
	ErrNoActive = serrors.NewNotFound("placement-no-active", "servant has no active placement")
)

// Placement records where a servant administratively sits (lotação).
type Placement struct {
	lifecycle.State

	UnitID            uuid.UUID
	PositionID        *uuid.UUID
	Kind              Kind
	Movement          MovementType
	ExercisedFunction string
	ExternalAgency    string
}

func (p *Placement) LifecycleState() *lifecycle.State { return &p.State }
func (p *Placement) EntityName() string               { return "placement" }

type Repository = lifecycle.Repository[*Placement]

type Policy struct {
	Tables *eligibility.Table
}

func (p Policy) ValidateOpen(rec *Placement, category servant.Category) error {
	if rec.UnitID == uuid.Nil {
		return serrors.NewFieldRequiredError("unit_id")
	}
	if !rec.Movement.Valid() {
		return serrors.NewInvalid("movement-type-unknown", "unknown movement type")
	}
	switch rec.Kind {
	case KindExternal:
		if rec.ExternalAgency == "" {
			return serrors.NewFieldRequiredError("external_agency")
		}
	case KindInternal:
		if rec.ExternalAgency != "" {
			return serrors.NewInvalid("external-agency-not-allowed", "internal placement cannot name an external agency")
		}
	default:
		return serrors.NewInvalid("placement-kind-unknown", "unknown placement kind")
	}
	if !p.Tables.PlacementKindAllowed(category, string(rec.Kind)) {
		return serrors.NewForbidden("placement-kind-not-allowed", "placement kind not allowed for servant type")
	}
	return nil
}
