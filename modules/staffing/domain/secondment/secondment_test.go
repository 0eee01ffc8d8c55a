package secondment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/lifecycle"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

func testSecondment(direction Direction) *Secondment {
	return &Secondment{
		State: lifecycle.State{
			ServantID: uuid.New(),
			StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Direction:         direction,
		CounterpartAgency: "Secretaria de Estado",
	}
}

func TestPolicyValidateOpen(t *testing.T) {
	policy := Policy{}

	assert.NoError(t, policy.ValidateOpen(testSecondment(DirectionIncoming), servant.CategoryIncomingSecondment))
	assert.NoError(t, policy.ValidateOpen(testSecondment(DirectionOutgoing), servant.CategoryCareer))

	err := policy.ValidateOpen(testSecondment(Direction("sideways")), servant.CategoryCareer)
	assert.Equal(t, "direction-unknown", serrors.CodeOf(err))

	noAgency := testSecondment(DirectionOutgoing)
	noAgency.CounterpartAgency = ""
	err = policy.ValidateOpen(noAgency, servant.CategoryCareer)
	assert.Equal(t, "field-required", serrors.CodeOf(err))
}
