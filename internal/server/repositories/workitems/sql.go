// Package workitems stores work items and the pending backlog ordering.
package workitems

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/payrun/internal/common"
	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/server/models"
	"github.com/google/uuid"
)

const columns = `w.id, w.person_id, w.description, w.total, w.paid, w.completed, w.priority, w.created_at`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner, extra ...any) (*models.WorkItem, error) {
	w := &models.WorkItem{}
	dest := append([]any{&w.ID, &w.PersonID, &w.Description, &w.Total, &w.Paid, &w.Completed, &w.Priority, &w.CreatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return w, nil
}

// Create inserts w. ID and CreatedAt are assigned when unset; the caller
// decides Priority and Completed.
func (r *SQLRepository) Create(ctx context.Context, w *models.WorkItem) (*models.WorkItem, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO work_items (id, person_id, description, total, paid, completed, priority, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.PersonID, w.Description, w.Total, w.Paid, w.Completed, w.Priority, w.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*models.WorkItem, error) {
	if !models.ValidID(id) {
		return nil, fmt.Errorf("work item %s: %w", id, common.ErrorNotFound)
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM work_items w WHERE w.id = $1`, id)
	w, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("work item %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

// List returns every work item, pending ones first in backlog order.
func (r *SQLRepository) List(ctx context.Context) ([]*models.WorkItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+columns+` FROM work_items w ORDER BY w.completed, w.priority, w.created_at, w.id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.WorkItem
	for rows.Next() {
		w, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// ListPending returns incomplete work items in backlog order: ascending
// priority, ties broken by creation time and id so the order is total.
func (r *SQLRepository) ListPending(ctx context.Context) ([]*models.BacklogItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+columns+`, p.name, p.role, (s.id IS NOT NULL)
		 FROM work_items w
		 JOIN people p ON p.id = w.person_id
		 LEFT JOIN board_slots s ON s.work_item_id = w.id
		 WHERE w.completed = $1
		 ORDER BY w.priority, w.created_at, w.id`, false)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.BacklogItem
	for rows.Next() {
		var name, role string
		var slotted bool
		w, err := scanItem(rows, &name, &role, &slotted)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &models.BacklogItem{WorkItem: *w, PersonName: name, PersonRole: role, Slotted: slotted})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// MaxPendingPriority returns the highest priority among pending items, or
// -1 when the backlog is empty.
func (r *SQLRepository) MaxPendingPriority(ctx context.Context) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(priority), -1) FROM work_items WHERE completed = $1`, false).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return max, nil
}

func (r *SQLRepository) SetPriority(ctx context.Context, id string, priority int) error {
	if !models.ValidID(id) {
		return fmt.Errorf("work item %s: %w", id, common.ErrorNotFound)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE work_items SET priority = $1 WHERE id = $2`, priority, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, id)
}

// ApplyPayment stores the new paid amount and completion flag.
func (r *SQLRepository) ApplyPayment(ctx context.Context, id string, paid models.Money, completed bool) error {
	if !models.ValidID(id) {
		return fmt.Errorf("work item %s: %w", id, common.ErrorNotFound)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE work_items SET paid = $1, completed = $2 WHERE id = $3`, paid, completed, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("work item %s: %w", id, common.ErrorNotFound)
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
