// Package history stores the append-only settlement ledger. Entries are never
// updated; they disappear only through a person's cascade delete.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/server/models"
	"github.com/google/uuid"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Append(ctx context.Context, e *models.HistoryEntry) (*models.HistoryEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO history (id, person_id, work_item_id, person_name, description, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.PersonID, e.WorkItemID, e.PersonName, e.Description, e.Amount, e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// List returns the ledger newest first.
func (r *SQLRepository) List(ctx context.Context) ([]*models.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, person_id, work_item_id, person_name, description, amount, created_at
		 FROM history ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.HistoryEntry
	for rows.Next() {
		e := &models.HistoryEntry{}
		if err := rows.Scan(&e.ID, &e.PersonID, &e.WorkItemID, &e.PersonName, &e.Description, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// AmountsByWorkItem sums the ledger per work item. Summation happens in Go
// with decimal arithmetic since not every dialect stores amounts as numbers.
func (r *SQLRepository) AmountsByWorkItem(ctx context.Context) (map[string]models.Money, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT work_item_id, amount FROM history`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]models.Money)
	for rows.Next() {
		var id string
		var amount models.Money
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		sums[id] = sums[id].Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sums, nil
}
