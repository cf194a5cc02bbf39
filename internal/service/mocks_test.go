package service_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marchukov/upkeep-api/internal/domain"
	"github.com/marchukov/upkeep-api/internal/events"
	"github.com/marchukov/upkeep-api/internal/store"
)

// nopDriver backs the *sql.DB handed to services in tests. The service
// layer only opens and closes transactions on it; the fake stores ignore
// the *sql.Tx, so the connections never need to run a query.
type nopDriver struct{}

func (nopDriver) Open(name string) (driver.Conn, error) { return nopConn{}, nil }

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("nop driver cannot prepare statements")
}
func (nopConn) Close() error              { return nil }
func (nopConn) Begin() (driver.Tx, error) { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

func init() {
	sql.Register("nop", nopDriver{})
}

// fakeMachineStore is an in-memory MachineStore for service tests.
type fakeMachineStore struct {
	machines map[uuid.UUID]*domain.Machine
	err      error
}

func newFakeMachineStore(machines ...*domain.Machine) *fakeMachineStore {
	s := &fakeMachineStore{machines: make(map[uuid.UUID]*domain.Machine)}
	for _, m := range machines {
		s.machines[m.ID] = m
	}
	return s
}

func (s *fakeMachineStore) Create(ctx context.Context, machine *domain.Machine) error {
	if s.err != nil {
		return s.err
	}
	s.machines[machine.ID] = machine
	return nil
}

func (s *fakeMachineStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Machine, error) {
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.machines[id]
	if !ok {
		return nil, store.ErrMachineNotFound
	}
	return m, nil
}

func (s *fakeMachineStore) List(ctx context.Context, limit, offset int) ([]*domain.Machine, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*domain.Machine, 0, len(s.machines))
	for _, m := range s.machines {
		out = append(out, m)
	}
	return out, nil
}

func (s *fakeMachineStore) Delete(ctx context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.machines[id]; !ok {
		return store.ErrMachineNotFound
	}
	delete(s.machines, id)
	return nil
}

func (s *fakeMachineStore) WithTx(tx *sql.Tx) store.MachineStore { return s }

// fakePlanStore is an in-memory PlanStore for service tests.
type fakePlanStore struct {
	plans map[uuid.UUID]*domain.MaintenancePlan
	err   error
}

func newFakePlanStore(plans ...*domain.MaintenancePlan) *fakePlanStore {
	s := &fakePlanStore{plans: make(map[uuid.UUID]*domain.MaintenancePlan)}
	for _, p := range plans {
		s.plans[p.ID] = p
	}
	return s
}

func (s *fakePlanStore) Create(ctx context.Context, plan *domain.MaintenancePlan) error {
	if s.err != nil {
		return s.err
	}
	s.plans[plan.ID] = plan
	return nil
}

func (s *fakePlanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenancePlan, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.plans[id]
	if !ok {
		return nil, store.ErrPlanNotFound
	}
	return p, nil
}

func (s *fakePlanStore) List(
	ctx context.Context,
	filter store.PlanFilter,
) ([]*domain.MaintenancePlan, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*domain.MaintenancePlan, 0, len(s.plans))
	for _, p := range s.plans {
		if filter.MachineID != uuid.Nil && p.MachineID != filter.MachineID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *fakePlanStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.PlanStatus,
) error {
	if s.err != nil {
		return s.err
	}
	p, ok := s.plans[id]
	if !ok {
		return store.ErrPlanNotFound
	}
	p.Status = status
	return nil
}

func (s *fakePlanStore) Delete(ctx context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.plans[id]; !ok {
		return store.ErrPlanNotFound
	}
	delete(s.plans, id)
	return nil
}

func (s *fakePlanStore) WithTx(tx *sql.Tx) store.PlanStore { return s }

// fakeChecklistStore is an in-memory ChecklistStore for service tests.
type fakeChecklistStore struct {
	items          map[uuid.UUID]*domain.ChecklistItem
	maxSeq         int
	err            error
	createBatchErr error
}

func newFakeChecklistStore(items ...*domain.ChecklistItem) *fakeChecklistStore {
	s := &fakeChecklistStore{items: make(map[uuid.UUID]*domain.ChecklistItem)}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *fakeChecklistStore) CreateBatch(ctx context.Context, items []*domain.ChecklistItem) error {
	if s.err != nil {
		return s.err
	}
	if s.createBatchErr != nil {
		return s.createBatchErr
	}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return nil
}

func (s *fakeChecklistStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.ChecklistItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	it, ok := s.items[id]
	if !ok {
		return nil, store.ErrItemNotFound
	}
	return it, nil
}

func (s *fakeChecklistStore) ListByPlan(
	ctx context.Context,
	planID uuid.UUID,
) ([]*domain.ChecklistItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []*domain.ChecklistItem{}
	for _, it := range s.items {
		if it.PlanID == planID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *fakeChecklistStore) ListDue(
	ctx context.Context,
	due time.Time,
) ([]*domain.ChecklistItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []*domain.ChecklistItem{}
	for _, it := range s.items {
		if !it.DueDate.After(due) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *fakeChecklistStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update store.ItemUpdate,
) (*domain.ChecklistItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	it, ok := s.items[id]
	if !ok {
		return nil, store.ErrItemNotFound
	}
	it.Status = update.Status
	if update.Remarks != nil {
		it.Remarks = update.Remarks
	}
	if update.Temperature != nil {
		it.Temperature = update.Temperature
	}
	if update.SoundReading != nil {
		it.SoundReading = update.SoundReading
	}
	if update.Cost != nil {
		it.Cost = update.Cost
	}
	if update.ImageURL != nil {
		it.ImageURL = update.ImageURL
	}
	return it, nil
}

// MaxTaskSeq mirrors the store query: the highest numeric suffix among
// stored items with the given prefix, or the seeded maxSeq if larger.
func (s *fakeChecklistStore) MaxTaskSeq(ctx context.Context, prefix string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	max := s.maxSeq
	for _, it := range s.items {
		rest, ok := strings.CutPrefix(it.TaskNo, prefix+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > max {
			max = n
		}
	}
	return max, nil
}

func (s *fakeChecklistStore) WithTx(tx *sql.Tx) store.ChecklistStore { return s }

// fakeEmitter records emitted events without dispatching them.
type fakeEmitter struct {
	emitted []*events.TaskRequestEvent
	err     error
}

func (e *fakeEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if e.err != nil {
		return e.err
	}
	e.emitted = append(e.emitted, event)
	return nil
}
