// Package people stores the person registry.
package people

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

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
// Queries use $N placeholders understood by both pgx and modernc sqlite.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create inserts p, assigning ID and CreatedAt when unset.
func (r *SQLRepository) Create(ctx context.Context, p *models.Person) (*models.Person, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO people (id, name, role, created_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.Role, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*models.Person, error) {
	if !models.ValidID(id) {
		return nil, fmt.Errorf("person %s: %w", id, common.ErrorNotFound)
	}
	p := &models.Person{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, role, created_at FROM people WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Role, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("person %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.Person, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, role, created_at FROM people ORDER BY name, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Person
	for rows.Next() {
		p := &models.Person{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Delete removes the person. Foreign keys cascade the delete to their work
// items, board slots and history.
func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	if !models.ValidID(id) {
		return fmt.Errorf("person %s: %w", id, common.ErrorNotFound)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("person %s: %w", id, common.ErrorNotFound)
	}
	return nil
}
