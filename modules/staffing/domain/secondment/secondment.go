package secondment

import (
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/bond"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/lifecycle"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

var (
	ErrNotFound = serrors.NewNotFound("secondment-not-found", "secondment not found")
	ErrNoActive = serrors.NewNotFound("secondment-no-active", "servant has no active secondment")
)

// Secondment is a temporal movement of a servant to or from another agency
// (cessão). The close act doubles as the return act.
type Secondment struct {
	lifecycle.State

	Direction         Direction
	CounterpartAgency string
	CounterpartRole   string
	CostBearer        bond.CostBearer
}

func (s *Secondment) LifecycleState() *lifecycle.State { return &s.State }
func (s *Secondment) EntityName() string               { return "secondment" }

type Repository = lifecycle.Repository[*Secondment]

type Policy struct{}

func (Policy) ValidateOpen(rec *Secondment, _ servant.Category) error {
	switch rec.Direction {
	case DirectionIncoming, DirectionOutgoing:
	default:
		return serrors.NewInvalid("direction-unknown", "unknown secondment direction")
	}
	// Incoming names the origin agency, outgoing the destination; both live
	// in the same counterpart field.
	if rec.CounterpartAgency == "" {
		return serrors.NewFieldRequiredError("counterpart_agency")
	}
	return nil
}
