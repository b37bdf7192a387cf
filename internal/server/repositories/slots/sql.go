// Package slots stores the occupied positions of the weekly board.
package slots

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

const columns = `id, position, work_item_id, person_id, person_name, person_role, description, amount, created_at`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSlot(s scanner) (*models.BoardSlot, error) {
	b := &models.BoardSlot{}
	err := s.Scan(&b.ID, &b.Position, &b.WorkItemID, &b.PersonID, &b.PersonName, &b.PersonRole,
		&b.Description, &b.Amount, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the occupied slots ordered by position.
func (r *SQLRepository) List(ctx context.Context) ([]*models.BoardSlot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM board_slots ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.BoardSlot
	for rows.Next() {
		b, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*models.BoardSlot, error) {
	if !models.ValidID(id) {
		return nil, fmt.Errorf("slot %s: %w", id, common.ErrorNotFound)
	}
	b, err := scanSlot(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM board_slots WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("slot %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// Create inserts s. The unique constraints on position and work_item_id
// reject a second slot for either.
func (r *SQLRepository) Create(ctx context.Context, s *models.BoardSlot) (*models.BoardSlot, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO board_slots (`+columns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Position, s.WorkItemID, s.PersonID, s.PersonName, s.PersonRole, s.Description, s.Amount, s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SQLRepository) SetAmount(ctx context.Context, id string, amount models.Money) error {
	if !models.ValidID(id) {
		return fmt.Errorf("slot %s: %w", id, common.ErrorNotFound)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE board_slots SET amount = $1 WHERE id = $2`, amount, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("slot %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	if !models.ValidID(id) {
		return fmt.Errorf("slot %s: %w", id, common.ErrorNotFound)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM board_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("slot %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

// DeleteAll clears the board and returns the number of slots removed.
func (r *SQLRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM board_slots`)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
