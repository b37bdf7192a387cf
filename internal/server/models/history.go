package models

import "time"

// HistoryEntry is an immutable record of a settled payment.
type HistoryEntry struct {
	ID          string
	PersonID    string
	WorkItemID  string
	PersonName  string
	Description string
	Amount      Money
	CreatedAt   time.Time
}

// Mismatch reports a work item whose paid amount disagrees with the sum of
// its history entries.
type Mismatch struct {
	WorkItemID string
	Paid       Money
	Ledger     Money
}

// Run is the outcome of one bulk approval: every entry written by it and
// their sum.
type Run struct {
	ID         string
	ApprovedAt time.Time
	Entries    []*HistoryEntry
	Total      Money
}
