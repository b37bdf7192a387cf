package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/history"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/people"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/slots"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/workitems"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	People(db dbx.DBTX) people.Repository
	WorkItems(db dbx.DBTX) workitems.Repository
	Slots(db dbx.DBTX) slots.Repository
	History(db dbx.DBTX) history.Repository
}
