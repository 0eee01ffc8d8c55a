package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/appointment"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/bond"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/compatibility"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/eligibility"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/lifecycle"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/placement"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/position"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/secondment"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/unit"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

// The fakes below give service tests the same transactional shape the real
// repositories have: row locks are acquired through the store and released
// when the transaction commits or rolls back, so concurrency tests exercise
// the actual serialization the engine relies on.

type fakeTx struct {
	mu      sync.Mutex
	done    bool
	unlocks []func()
}

func (t *fakeTx) addUnlock(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unlocks = append(t.unlocks, fn)
}

func (t *fakeTx) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	for i := len(t.unlocks) - 1; i >= 0; i-- {
		t.unlocks[i]()
	}
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *fakeTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *fakeTx) Conn() *pgx.Conn                           { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects            { return pgx.LargeObjects{} }

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}

type fakeDB struct{}

func (fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return &fakeTx{}, nil }
func (fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}

type memStore struct {
	mu           sync.Mutex
	locks        map[string]chan struct{}
	servants     map[uuid.UUID]*servant.Servant
	units        map[uuid.UUID]*unit.Unit
	positions    map[uuid.UUID]*position.Position
	rules        []*compatibility.Rule
	appointments map[uuid.UUID]*appointment.Appointment
}

func newMemStore() *memStore {
	return &memStore{
		locks:        map[string]chan struct{}{},
		servants:     map[uuid.UUID]*servant.Servant{},
		units:        map[uuid.UUID]*unit.Unit{},
		positions:    map[uuid.UUID]*position.Position{},
		appointments: map[uuid.UUID]*appointment.Appointment{},
	}
}

// acquire takes the named row lock, holding it until the surrounding fake
// transaction finishes. Blocks like SELECT ... FOR UPDATE; gives up when the
// context expires.
func (s *memStore) acquire(ctx context.Context, key string) error {
	s.mu.Lock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	s.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		<-ch
		return err
	}
	ft, ok := tx.(*fakeTx)
	if !ok {
		<-ch
		return nil
	}
	ft.addUnlock(func() { <-ch })
	return nil
}

type memServantRepo struct{ store *memStore }

func (r *memServantRepo) GetByID(ctx context.Context, id uuid.UUID) (*servant.Servant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.servants[id]
	if !ok {
		return nil, servant.ErrNotFound
	}
	return s, nil
}

func (r *memServantRepo) Lock(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	_, ok := r.store.servants[id]
	r.store.mu.Unlock()
	if !ok {
		return servant.ErrNotFound
	}
	return r.store.acquire(ctx, "servant/"+id.String())
}

type memUnitRepo struct{ store *memStore }

func (r *memUnitRepo) GetByID(ctx context.Context, id uuid.UUID) (*unit.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.units[id]
	if !ok {
		return nil, unit.ErrNotFound
	}
	return u, nil
}

func (r *memUnitRepo) ListByType(ctx context.Context, unitType string) ([]*unit.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*unit.Unit
	for _, u := range r.store.units {
		if u.Type == unitType {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memUnitRepo) GetAll(ctx context.Context) ([]*unit.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*unit.Unit
	for _, u := range r.store.units {
		out = append(out, u)
	}
	return out, nil
}

type memCompatRepo struct{ store *memStore }

func (r *memCompatRepo) ListByPosition(ctx context.Context, positionID uuid.UUID) ([]*compatibility.Rule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*compatibility.Rule
	for _, rule := range r.store.rules {
		if rule.PositionID == positionID {
			out = append(out, rule)
		}
	}
	return out, nil
}

type memPositionRepo struct{ store *memStore }

func (r *memPositionRepo) GetByID(ctx context.Context, id uuid.UUID) (*position.Position, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.positions[id]
	if !ok {
		return nil, position.ErrNotFound
	}
	return p, nil
}

func (r *memPositionRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*position.Position, error) {
	r.store.mu.Lock()
	_, ok := r.store.positions[id]
	r.store.mu.Unlock()
	if !ok {
		return nil, position.ErrNotFound
	}
	if err := r.store.acquire(ctx, "position/"+id.String()); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *memPositionRepo) ListByNature(ctx context.Context, nature position.Nature) ([]*position.Position, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*position.Position
	for _, p := range r.store.positions {
		if p.Nature == nature {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memPositionRepo) GetPaginated(ctx context.Context, params *position.FindParams) ([]*position.Position, error) {
	return r.ListByNature(ctx, params.Nature)
}

func (r *memPositionRepo) ListWithOccupancy(ctx context.Context, nature position.Nature) ([]position.Occupancy, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []position.Occupancy
	for _, p := range r.store.positions {
		if nature != "" && p.Nature != nature {
			continue
		}
		occupied := 0
		for _, a := range r.store.appointments {
			if a.PositionID() == p.ID && a.IsActive() {
				occupied++
			}
		}
		out = append(out, position.Occupancy{Position: p, Occupied: occupied})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position.Name < out[j].Position.Name })
	return out, nil
}

type memAppointmentRepo struct{ store *memStore }

func (r *memAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.appointments[id]
	if !ok {
		return nil, appointment.ErrNotFound
	}
	return a, nil
}

func (r *memAppointmentRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := r.store.acquire(ctx, "appointment/"+id.String()); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *memAppointmentRepo) GetActiveByServant(ctx context.Context, servantID uuid.UUID) (*appointment.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.appointments {
		if a.ServantID() == servantID && a.IsActive() {
			return a, nil
		}
	}
	return nil, appointment.ErrNoActive
}

func (r *memAppointmentRepo) ListByServant(ctx context.Context, servantID uuid.UUID) ([]*appointment.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range r.store.appointments {
		if a.ServantID() == servantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) GetPaginated(ctx context.Context, params *appointment.FindParams) ([]*appointment.Appointment, error) {
	return r.ListByServant(ctx, params.ServantID)
}

func (r *memAppointmentRepo) CountActiveByPosition(ctx context.Context, positionID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, a := range r.store.appointments {
		if a.PositionID() == positionID && a.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *memAppointmentRepo) Create(ctx context.Context, data *appointment.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.appointments[data.ID()] = data
	return nil
}

func (r *memAppointmentRepo) Update(ctx context.Context, data *appointment.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.appointments[data.ID()]; !ok {
		return appointment.ErrNotFound
	}
	r.store.appointments[data.ID()] = data
	return nil
}

// memLifecycleRepo backs bonds, placements and secondments in tests.
type memLifecycleRepo[T lifecycle.Record] struct {
	store    *memStore
	mu       sync.Mutex
	items    map[uuid.UUID]T
	notFound error
	noActive error
}

func newMemLifecycleRepo[T lifecycle.Record](store *memStore, notFound, noActive error) *memLifecycleRepo[T] {
	return &memLifecycleRepo[T]{
		store:    store,
		items:    map[uuid.UUID]T{},
		notFound: notFound,
		noActive: noActive,
	}
}

func (r *memLifecycleRepo[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return zero, r.notFound
	}
	return item, nil
}

func (r *memLifecycleRepo[T]) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (T, error) {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return item, err
	}
	if err := r.store.acquire(ctx, item.EntityName()+"/"+id.String()); err != nil {
		var zero T
		return zero, err
	}
	return r.GetByID(ctx, id)
}

func (r *memLifecycleRepo[T]) GetActiveByServant(ctx context.Context, servantID uuid.UUID) (T, error) {
	var zero T
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		s := item.LifecycleState()
		if s.ServantID == servantID && s.Active {
			return item, nil
		}
	}
	return zero, r.noActive
}

func (r *memLifecycleRepo[T]) ListByServant(ctx context.Context, servantID uuid.UUID) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, item := range r.items {
		if item.LifecycleState().ServantID == servantID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memLifecycleRepo[T]) Create(ctx context.Context, data T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[data.LifecycleState().ID] = data
	return nil
}

func (r *memLifecycleRepo[T]) Update(ctx context.Context, data T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[data.LifecycleState().ID]; !ok {
		return r.notFound
	}
	r.items[data.LifecycleState().ID] = data
	return nil
}

// testEnv wires the full service graph over the in-memory store.
type testEnv struct {
	ctx   context.Context
	store *memStore
	clock *clockwork.FakeClock

	servants     *memServantRepo
	positions    *memPositionRepo
	appointments *memAppointmentRepo
	bonds        *memLifecycleRepo[*bond.Bond]
	placements   *memLifecycleRepo[*placement.Placement]
	secondments  *memLifecycleRepo[*secondment.Secondment]

	allocation    *AllocationService
	vacancy       *VacancyService
	compat        *CompatibilityService
	bondSvc       *BondService
	placementSvc  *PlacementService
	secondmentSvc *SecondmentService
	status        *StatusService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	tables := eligibility.Default()

	env := &testEnv{
		ctx:          composables.WithPool(context.Background(), fakeDB{}),
		store:        store,
		clock:        clock,
		servants:     &memServantRepo{store: store},
		positions:    &memPositionRepo{store: store},
		appointments: &memAppointmentRepo{store: store},
		bonds:        newMemLifecycleRepo[*bond.Bond](store, bond.ErrNotFound, bond.ErrNoActive),
		placements:   newMemLifecycleRepo[*placement.Placement](store, placement.ErrNotFound, placement.ErrNoActive),
		secondments:  newMemLifecycleRepo[*secondment.Secondment](store, secondment.ErrNotFound, secondment.ErrNoActive),
	}

	const txTimeout = 2 * time.Second
	publisher := &stubPublisher{}

	env.compat = NewCompatibilityService(&memCompatRepo{store: store}, &memUnitRepo{store: store})
	env.vacancy = NewVacancyService(env.positions, env.appointments, env.compat)
	env.allocation = NewAllocationService(
		env.positions, env.appointments, env.bonds, env.servants,
		env.compat, tables, publisher, clock, log, txTimeout,
	)
	env.bondSvc = NewBondService(env.bonds, env.servants, tables, publisher, clock, log, txTimeout)
	env.placementSvc = NewPlacementService(env.placements, env.servants, tables, publisher, clock, log, txTimeout)
	env.secondmentSvc = NewSecondmentService(env.secondments, env.servants, publisher, clock, log, txTimeout)
	env.status = NewStatusService(env.servants, env.bonds, env.appointments, env.placements, env.secondments)
	return env
}

func (env *testEnv) addServant(category servant.Category) uuid.UUID {
	id := uuid.New()
	env.store.servants[id] = &servant.Servant{ID: id, DisplayName: "servant " + id.String()[:8], Category: category}
	return id
}

func (env *testEnv) addUnit(name, unitType string) uuid.UUID {
	id := uuid.New()
	env.store.units[id] = &unit.Unit{ID: id, Name: name, Type: unitType}
	return id
}

func (env *testEnv) addPosition(name string, nature position.Nature, quota int) uuid.UUID {
	id := uuid.New()
	env.store.positions[id] = &position.Position{ID: id, Name: name, Nature: nature, Quota: quota}
	return id
}

func (env *testEnv) addUnitRule(positionID, unitID uuid.UUID) {
	env.store.rules = append(env.store.rules, &compatibility.Rule{
		ID: uuid.New(), PositionID: positionID, UnitID: &unitID,
	})
}

func (env *testEnv) addUnitTypeRule(positionID uuid.UUID, unitType string) {
	env.store.rules = append(env.store.rules, &compatibility.Rule{
		ID: uuid.New(), PositionID: positionID, UnitType: unitType,
	})
}

type stubPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (s *stubPublisher) Publish(args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(args) > 0 {
		if topic, ok := args[0].(string); ok {
			s.topics = append(s.topics, topic)
		}
	}
}
func (s *stubPublisher) Subscribe(handler any)   {}
func (s *stubPublisher) Unsubscribe(handler any) {}
func (s *stubPublisher) Clear()                  {}
func (s *stubPublisher) SubscribersCount() int   { return 0 }
