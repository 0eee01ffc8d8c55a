package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/act"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/lifecycle"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/eventbus"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/metrics"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/serrors"
)

// LifecycleService carries the open/close rules shared by bonds, placements
// and secondments: at most one active record per servant per type, close only
// from the active state, no implicit closing of prior records. Instantiated
// once per record type with that type's validation policy.
//
// Deliberately no auto-close: opening over an existing active record is a
// conflict the caller must resolve through an explicit close. Administrative
// procedure owns that ordering, not the engine.
type LifecycleService[T lifecycle.Record] struct {
	entity    string
	repo      lifecycle.Repository[T]
	servants  servant.Repository
	policy    lifecycle.Policy[T]
	noActive  error
	publisher eventbus.EventBus
	clock     clockwork.Clock
	log       *logrus.Logger
	txTimeout time.Duration
}

func NewLifecycleService[T lifecycle.Record](
	entity string,
	repo lifecycle.Repository[T],
	servants servant.Repository,
	policy lifecycle.Policy[T],
	noActive error,
	publisher eventbus.EventBus,
	clock clockwork.Clock,
	log *logrus.Logger,
	txTimeout time.Duration,
) *LifecycleService[T] {
	return &LifecycleService[T]{
		entity:    entity,
		repo:      repo,
		servants:  servants,
		policy:    policy,
		noActive:  noActive,
		publisher: publisher,
		clock:     clock,
		log:       log,
		txTimeout: txTimeout,
	}
}

// Open creates a new active record for the servant, enforcing the
// single-active invariant under the servant row lock.
func (s *LifecycleService[T]) Open(ctx context.Context, data T) (T, error) {
	var zero T
	if err := lifecycle.ValidateOpen(data); err != nil {
		return zero, err
	}

	state := data.LifecycleState()
	out, err := composables.InTxResult(ctx, s.txTimeout, func(txCtx context.Context) (T, error) {
		if err := s.servants.Lock(txCtx, state.ServantID); err != nil {
			return zero, err
		}
		srv, err := s.servants.GetByID(txCtx, state.ServantID)
		if err != nil {
			return zero, err
		}
		if err := s.policy.ValidateOpen(data, srv.Category); err != nil {
			return zero, err
		}

		if _, err := s.repo.GetActiveByServant(txCtx, state.ServantID); err == nil {
			return zero, serrors.NewConflict(s.entity+"-active", "servant already has an active "+s.entity)
		} else if !errors.Is(err, s.noActive) {
			return zero, err
		}

		lifecycle.Init(data, s.clock.Now().UTC())
		if err := s.repo.Create(txCtx, data); err != nil {
			return zero, err
		}
		return data, nil
	})
	if err != nil {
		return zero, err
	}

	metrics.ObserveLifecycleTransition(s.entity, "opened")
	s.log.WithFields(logrus.Fields{
		"entity":     s.entity,
		"record_id":  state.ID,
		"servant_id": state.ServantID,
	}).Info("lifecycle record opened")
	s.publisher.Publish(s.entity+".opened", data)
	return out, nil
}

// Close ends an active record. Closing an already-closed record is invalid.
func (s *LifecycleService[T]) Close(ctx context.Context, id uuid.UUID, closingDate time.Time, closeAct act.Meta) (T, error) {
	var zero T
	out, err := composables.InTxResult(ctx, s.txTimeout, func(txCtx context.Context) (T, error) {
		data, err := s.repo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return zero, err
		}
		if err := lifecycle.Close(data, closingDate, closeAct, s.clock.Now().UTC()); err != nil {
			return zero, err
		}
		if err := s.repo.Update(txCtx, data); err != nil {
			return zero, err
		}
		return data, nil
	})
	if err != nil {
		return zero, err
	}

	metrics.ObserveLifecycleTransition(s.entity, "closed")
	s.publisher.Publish(s.entity+".closed", out)
	return out, nil
}

// GetActive returns the servant's active record, or the type's no-active
// sentinel when there is none.
func (s *LifecycleService[T]) GetActive(ctx context.Context, servantID uuid.UUID) (T, error) {
	return s.repo.GetActiveByServant(ctx, servantID)
}

func (s *LifecycleService[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *LifecycleService[T]) ListByServant(ctx context.Context, servantID uuid.UUID) ([]T, error) {
	return s.repo.ListByServant(ctx, servantID)
}
