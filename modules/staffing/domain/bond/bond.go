package bond

import (
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/eligibility"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/lifecycle"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

type Type string

const (
	TypeCareer             Type = "career"
	TypeAppointed          Type = "appointed"
	TypeIncomingSecondment Type = "incoming-secondment"
	TypeOutgoingSecondment Type = "outgoing-secondment"
	TypeTemporary          Type = "temporary"
	TypeIntern             Type = "intern"
	TypeRequisitioned      Type = "requisitioned"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCareer, TypeAppointed, TypeIncomingSecondment, TypeOutgoingSecondment,
		TypeTemporary, TypeIntern, TypeRequisitioned:
		return true
	}
	return false
}

type CostBearer string

const (
	CostOwnAgency   CostBearer = "own-agency"
	CostCounterpart CostBearer = "counterpart"
	CostShared      CostBearer = "shared"
)

var (
	ErrNotFound = serrors.NewNotFound("bond-not-found", "bond not found")
	ErrNoActive = serrors.NewNotFound("bond-no-active", "servant has no active bond")
)

// Bond is the legal employment relationship of a servant (vínculo).
type Bond struct {
	lifecycle.State

	Type              Type
	OriginAgency      string
	DestinationAgency string
	CostBearer        CostBearer
	LegalBasis        string
}

func (b *Bond) LifecycleState() *lifecycle.State { return &b.State }
func (b *Bond) EntityName() string               { return "bond" }

type Repository = lifecycle.Repository[*Bond]

// Policy validates bond-specific fields at open time against the eligibility
// tables: incoming secondments name the origin agency, outgoing ones the
// destination, every other type neither.
type Policy struct {
	Tables *eligibility.Table
}

func (p Policy) ValidateOpen(b *Bond, category servant.Category) error {
	if !b.Type.Valid() {
		return serrors.NewInvalid("bond-type-unknown", "unknown bond type")
	}
	if !p.Tables.BondTypeAllowed(category, string(b.Type)) {
		return serrors.NewForbidden("bond-type-not-allowed", "bond type not allowed for servant type")
	}
	switch b.Type {
	case TypeIncomingSecondment:
		if b.OriginAgency == "" {
			return serrors.NewFieldRequiredError("origin_agency")
		}
	case TypeOutgoingSecondment:
		if b.DestinationAgency == "" {
			return serrors.NewFieldRequiredError("destination_agency")
		}
	}
	return nil
}
