// Package models defines the ledger entities persisted by the server: people,
// the work items owed to them, the weekly board slots and the append-only
// settlement history.
package models
