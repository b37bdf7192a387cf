// Package repomanager provides the SQL RepositoryManager, wiring together
// repository constructors and the goose migrations of the selected dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/server/migrations"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/history"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/people"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/slots"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/workitems"
	"github.com/pressly/goose/v3"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// SQLRepositoryManager vends the SQL repositories for one dialect.
type SQLRepositoryManager struct {
	driver string
}

func (m *SQLRepositoryManager) People(db dbx.DBTX) people.Repository {
	return people.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) WorkItems(db dbx.DBTX) workitems.Repository {
	return workitems.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Slots(db dbx.DBTX) slots.Repository {
	return slots.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) History(db dbx.DBTX) history.Repository {
	return history.NewSQLRepository(db)
}

// gooseUp is a seam for testing migrations without a database.
var gooseUp = func(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	switch m.driver {
	case DriverPostgres:
		return gooseUp(ctx, db, "pgx", "postgres")
	case DriverSQLite:
		return gooseUp(ctx, db, "sqlite3", "sqlite")
	default:
		return fmt.Errorf("unsupported driver %q", m.driver)
	}
}

// NewSQLRepositoryManager returns a manager for the given driver name.
func NewSQLRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
		return &SQLRepositoryManager{driver: driver}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}
