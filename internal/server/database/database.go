// Package database opens the ledger store for the configured driver.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/payrun/internal/server/repositories/repomanager"
)

// ErrLocked is returned when another process already owns a sqlite ledger file.
var ErrLocked = errors.New("ledger file is locked by another process")

// DB is an open ledger store. For file-backed sqlite it also holds an
// exclusive file lock so a single process writes the ledger.
type DB struct {
	*sql.DB
	Driver string
	lock   *flock.Flock
}

// Open connects to the store and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case repomanager.DriverPostgres:
		return openPostgres(ctx, dsn)
	case repomanager.DriverSQLite:
		return openSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func openPostgres(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open(repomanager.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return &DB{DB: db, Driver: repomanager.DriverPostgres}, nil
}

func openSQLite(ctx context.Context, dsn string) (*DB, error) {
	var lock *flock.Flock
	if path := sqliteFilePath(dsn); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		lock = flock.New(path + ".lock")
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return nil, ErrLocked
		}
	}

	release := func() {
		if lock != nil {
			_ = lock.Unlock()
		}
	}

	db, err := sql.Open(repomanager.DriverSQLite, withPragmas(dsn))
	if err != nil {
		release()
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// One connection: sqlite serialises writers anyway, and in-memory
	// databases are per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		release()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return &DB{DB: db, Driver: repomanager.DriverSQLite, lock: lock}, nil
}

// Close closes the pool and releases the file lock.
func (d *DB) Close() error {
	err := d.DB.Close()
	if d.lock != nil {
		if uerr := d.lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}
	return err
}

// withPragmas enables foreign keys, which carry the person cascade, and a
// busy timeout on every connection.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// sqliteFilePath returns the file behind a sqlite DSN, or "" for in-memory
// databases.
func sqliteFilePath(dsn string) string {
	path, query, _ := strings.Cut(dsn, "?")
	path = strings.TrimPrefix(path, "file:")
	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return ""
	}
	return path
}
