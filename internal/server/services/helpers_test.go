package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/logging"
	"github.com/dmitrijs2005/payrun/internal/server/database"
	"github.com/dmitrijs2005/payrun/internal/server/models"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/history"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/slots"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/workitems"
)

var errDiskFault = errors.New("db error: disk I/O error")

// faultyManager wraps the real repositories and fails the Nth call of a
// chosen operation.
type faultyManager struct {
	repomanager.RepositoryManager

	mu             sync.Mutex
	failAppendAt   int
	failPaymentAt  int
	failSlotCreate bool
	appends        int
	payments       int
}

func (m *faultyManager) History(db dbx.DBTX) history.Repository {
	return &faultyHistory{Repository: m.RepositoryManager.History(db), m: m}
}

func (m *faultyManager) WorkItems(db dbx.DBTX) workitems.Repository {
	return &faultyWorkItems{Repository: m.RepositoryManager.WorkItems(db), m: m}
}

func (m *faultyManager) Slots(db dbx.DBTX) slots.Repository {
	return &faultySlots{Repository: m.RepositoryManager.Slots(db), m: m}
}

type faultyHistory struct {
	history.Repository
	m *faultyManager
}

func (h *faultyHistory) Append(ctx context.Context, e *models.HistoryEntry) (*models.HistoryEntry, error) {
	h.m.mu.Lock()
	h.m.appends++
	fail := h.m.failAppendAt > 0 && h.m.appends == h.m.failAppendAt
	h.m.mu.Unlock()
	if fail {
		return nil, errDiskFault
	}
	return h.Repository.Append(ctx, e)
}

type faultyWorkItems struct {
	workitems.Repository
	m *faultyManager
}

func (w *faultyWorkItems) ApplyPayment(ctx context.Context, id string, paid models.Money, completed bool) error {
	w.m.mu.Lock()
	w.m.payments++
	fail := w.m.failPaymentAt > 0 && w.m.payments == w.m.failPaymentAt
	w.m.mu.Unlock()
	if fail {
		return errDiskFault
	}
	return w.Repository.ApplyPayment(ctx, id, paid, completed)
}

type faultySlots struct {
	slots.Repository
	m *faultyManager
}

func (s *faultySlots) Create(ctx context.Context, b *models.BoardSlot) (*models.BoardSlot, error) {
	s.m.mu.Lock()
	fail := s.m.failSlotCreate
	s.m.mu.Unlock()
	if fail {
		return nil, errDiskFault
	}
	return s.Repository.Create(ctx, b)
}

type fakeRecorder struct {
	mu        sync.Mutex
	settled   []models.Money
	approved  int
	filled    int
	occupancy int
}

func (r *fakeRecorder) SlotSettled(amount models.Money) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settled = append(r.settled, amount)
}

func (r *fakeRecorder) BoardApproved(int, models.Money) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approved++
}

func (r *fakeRecorder) SlotsFilled(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filled += n
}

func (r *fakeRecorder) BoardOccupancy(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.occupancy = n
}

type fakeArchiver struct {
	runs []*models.Run
	err  error
}

func (a *fakeArchiver) ArchiveRun(_ context.Context, run *models.Run) error {
	a.runs = append(a.runs, run)
	return a.err
}

type testEnv struct {
	db       *database.DB
	faults   *faultyManager
	sched    *Scheduler
	registry *RegistryService
	ledger   *LedgerService
	recorder *fakeRecorder
	archiver *fakeArchiver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, repomanager.DriverSQLite, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := repomanager.NewSQLRepositoryManager(repomanager.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db.DB))

	faults := &faultyManager{RepositoryManager: m}
	writer := &sync.Mutex{}
	rec := &fakeRecorder{}
	arch := &fakeArchiver{}

	return &testEnv{
		db:       db,
		faults:   faults,
		sched:    NewScheduler(db.DB, faults, writer, logging.Nop{}, WithRecorder(rec), WithArchiver(arch)),
		registry: NewRegistryService(db.DB, faults, writer, logging.Nop{}),
		ledger:   NewLedgerService(db.DB, faults, writer, logging.Nop{}),
		recorder: rec,
		archiver: arch,
	}
}

func (e *testEnv) person(t *testing.T, name string) *models.Person {
	t.Helper()
	p, err := e.registry.CreatePerson(context.Background(), name, "Dev")
	require.NoError(t, err)
	return p
}

func (e *testEnv) item(t *testing.T, p *models.Person, desc, total string) *models.WorkItem {
	t.Helper()
	w, err := e.registry.CreateWorkItem(context.Background(), p.ID, desc, models.MustMoney(total))
	require.NoError(t, err)
	return w
}

func (e *testEnv) occupied(t *testing.T) []*models.BoardSlot {
	t.Helper()
	board, err := e.sched.ListSlots(context.Background())
	require.NoError(t, err)
	var out []*models.BoardSlot
	for _, p := range board {
		if !p.Empty() {
			out = append(out, p.Slot)
		}
	}
	return out
}

func (e *testEnv) workItem(t *testing.T, id string) *models.WorkItem {
	t.Helper()
	w, err := e.faults.RepositoryManager.WorkItems(e.db.DB).Get(context.Background(), id)
	require.NoError(t, err)
	return w
}

type ledgerState struct {
	Slots   []*models.BoardSlot
	Items   []*models.WorkItem
	History []*models.HistoryEntry
}

func (e *testEnv) snapshot(t *testing.T) ledgerState {
	t.Helper()
	ctx := context.Background()
	m := e.faults.RepositoryManager

	s, err := m.Slots(e.db.DB).List(ctx)
	require.NoError(t, err)
	w, err := m.WorkItems(e.db.DB).List(ctx)
	require.NoError(t, err)
	h, err := m.History(e.db.DB).List(ctx)
	require.NoError(t, err)
	return ledgerState{Slots: s, Items: w, History: h}
}

// requireInvariants checks the ledger-wide properties that must hold after
// any sequence of operations.
func (e *testEnv) requireInvariants(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	mismatches, err := e.ledger.Reconcile(ctx)
	require.NoError(t, err)
	require.Empty(t, mismatches, "money conservation")

	st := e.snapshot(t)
	require.LessOrEqual(t, len(st.Slots), models.BoardCapacity)
	_, err = buildBoard(st.Slots)
	require.NoError(t, err, "board layout")

	for _, w := range st.Items {
		require.True(t, w.Paid.GreaterThanOrEqual(models.Zero))
		require.True(t, w.Paid.LessThanOrEqual(w.Total))
		require.Equal(t, w.Paid.GreaterThanOrEqual(w.Total), w.Completed, "completion flag of %s", w.ID)
	}
	for _, s := range st.Slots {
		w := e.workItem(t, s.WorkItemID)
		require.False(t, w.Completed, "completed item %s is slotted", w.ID)
	}
}
