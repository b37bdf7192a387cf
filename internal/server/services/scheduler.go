package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/payrun/internal/common"
	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/logging"
	"github.com/dmitrijs2005/payrun/internal/server/models"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/repomanager"
)

// Recorder receives scheduler events for metrics.
type Recorder interface {
	SlotSettled(amount models.Money)
	BoardApproved(slots int, total models.Money)
	SlotsFilled(n int)
	BoardOccupancy(n int)
}

// ReceiptArchiver stores a copy of every approved run outside the ledger.
type ReceiptArchiver interface {
	ArchiveRun(ctx context.Context, run *models.Run) error
}

type nopRecorder struct{}

func (nopRecorder) SlotSettled(models.Money)        {}
func (nopRecorder) BoardApproved(int, models.Money) {}
func (nopRecorder) SlotsFilled(int)                 {}
func (nopRecorder) BoardOccupancy(int)              {}

// Scheduler owns the backlog ordering, the board and settlement.
//
// Every board-mutating operation runs as one transaction while holding the
// writer lock, which is shared with the other services that touch the board
// (person deletion) or need a stable view of balances (reconciliation).
type Scheduler struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	writer      *sync.Mutex
	logger      logging.Logger
	recorder    Recorder
	archiver    ReceiptArchiver
	now         func() time.Time
}

// SchedulerOption customises a Scheduler.
type SchedulerOption func(*Scheduler)

func WithRecorder(r Recorder) SchedulerOption {
	return func(s *Scheduler) { s.recorder = r }
}

func WithArchiver(a ReceiptArchiver) SchedulerOption {
	return func(s *Scheduler) { s.archiver = a }
}

func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

func NewScheduler(db *sql.DB, m repomanager.RepositoryManager, writer *sync.Mutex, logger logging.Logger, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		db:          db,
		repomanager: m,
		writer:      writer,
		logger:      logger.With("module", "scheduler"),
		recorder:    nopRecorder{},
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// write runs fn as one serialised transaction and classifies its error.
func (s *Scheduler) write(ctx context.Context, op string, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return serialised(ctx, s.db, s.writer, op, fn)
}

func serialised(ctx context.Context, db *sql.DB, writer *sync.Mutex, op string, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	writer.Lock()
	defer writer.Unlock()
	return classify(op, dbx.WithTx(ctx, db, nil, fn))
}

// classify passes domain errors through and marks everything else as a
// storage failure.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if common.IsDomain(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, common.ErrStorage, err)
}

// refill runs auto-fill after a settlement. Failure is logged only; the
// settlement that triggered it has already committed.
func (s *Scheduler) refill(ctx context.Context, trigger string) {
	n, err := s.RunAutoFill(ctx)
	if err != nil {
		s.logger.Error(ctx, "auto-fill after settlement failed", "trigger", trigger, "error", err)
		return
	}
	s.logger.Debug(ctx, "auto-fill after settlement", "trigger", trigger, "filled", n)
}
