package services

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/bond"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/eligibility"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/placement"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/secondment"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/eventbus"
)

// The three lifecycle managers are the same service instantiated with
// different record types and policies.

type BondService = LifecycleService[*bond.Bond]

type PlacementService = LifecycleService[*placement.Placement]

type SecondmentService = LifecycleService[*secondment.Secondment]

func NewBondService(
	repo bond.Repository,
	servants servant.Repository,
	tables *eligibility.Table,
	publisher eventbus.EventBus,
	clock clockwork.Clock,
	log *logrus.Logger,
	txTimeout time.Duration,
) *BondService {
	return NewLifecycleService(
		"bond", repo, servants,
		bond.Policy{Tables: tables}, bond.ErrNoActive,
		publisher, clock, log, txTimeout,
	)
}

func NewPlacementService(
	repo placement.Repository,
	servants servant.Repository,
	tables *eligibility.Table,
	publisher eventbus.EventBus,
	clock clockwork.Clock,
	log *logrus.Logger,
	txTimeout time.Duration,
) *PlacementService {
	return NewLifecycleService(
		"placement", repo, servants,
		placement.Policy{Tables: tables}, placement.ErrNoActive,
		publisher, clock, log, txTimeout,
	)
}

func NewSecondmentService(
	repo secondment.Repository,
	servants servant.Repository,
	publisher eventbus.EventBus,
	clock clockwork.Clock,
	log *logrus.Logger,
	txTimeout time.Duration,
) *SecondmentService {
	return NewLifecycleService(
		"secondment", repo, servants,
		secondment.Policy{}, secondment.ErrNoActive,
		publisher, clock, log, txTimeout,
	)
}
