package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/logging"
	"github.com/dmitrijs2005/payrun/internal/server/models"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/repomanager"
)

// LedgerService exposes read views over the settlement history.
type LedgerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	writer      *sync.Mutex
	logger      logging.Logger
}

func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager, writer *sync.Mutex, logger logging.Logger) *LedgerService {
	return &LedgerService{db: db, repomanager: m, writer: writer, logger: logger.With("module", "ledger")}
}

// ListHistory returns every settled payment, newest first.
func (s *LedgerService) ListHistory(ctx context.Context) ([]*models.HistoryEntry, error) {
	entries, err := s.repomanager.History(s.db).List(ctx)
	if err != nil {
		return nil, classify("list history", err)
	}
	return entries, nil
}

// PersonTotals sums the history per person. People with nothing paid yet are
// included with a zero total.
func (s *LedgerService) PersonTotals(ctx context.Context) ([]*models.PersonTotal, error) {
	people, err := s.repomanager.People(s.db).List(ctx)
	if err != nil {
		return nil, classify("person totals", err)
	}
	entries, err := s.repomanager.History(s.db).List(ctx)
	if err != nil {
		return nil, classify("person totals", err)
	}

	byID := make(map[string]*models.PersonTotal, len(people))
	result := make([]*models.PersonTotal, 0, len(people))
	for _, p := range people {
		t := &models.PersonTotal{PersonID: p.ID, Name: p.Name, Role: p.Role, Paid: models.Zero}
		byID[p.ID] = t
		result = append(result, t)
	}
	for _, e := range entries {
		if t, ok := byID[e.PersonID]; ok {
			t.Paid = t.Paid.Add(e.Amount)
			t.Entries++
		}
	}
	return result, nil
}

// Reconcile checks that every work item's paid amount equals the sum of its
// history entries and returns the items that disagree. It holds the writer
// lock so no settlement lands between the two reads.
func (s *LedgerService) Reconcile(ctx context.Context) ([]models.Mismatch, error) {
	var mismatches []models.Mismatch

	err := serialised(ctx, s.db, s.writer, "reconcile", func(ctx context.Context, tx dbx.DBTX) error {
		items, err := s.repomanager.WorkItems(tx).List(ctx)
		if err != nil {
			return err
		}
		sums, err := s.repomanager.History(tx).AmountsByWorkItem(ctx)
		if err != nil {
			return err
		}

		for _, it := range items {
			ledger := sums[it.ID]
			if !it.Paid.Equal(ledger) {
				mismatches = append(mismatches, models.Mismatch{WorkItemID: it.ID, Paid: it.Paid, Ledger: ledger})
			}
			delete(sums, it.ID)
		}
		for id, ledger := range sums {
			mismatches = append(mismatches, models.Mismatch{WorkItemID: id, Paid: models.Zero, Ledger: ledger})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(mismatches, func(i, j int) bool { return mismatches[i].WorkItemID < mismatches[j].WorkItemID })
	if len(mismatches) > 0 {
		s.logger.Warn(ctx, "ledger out of balance", "mismatches", len(mismatches))
	}
	return mismatches, nil
}
