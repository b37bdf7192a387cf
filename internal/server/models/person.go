package models

import "time"

// Person is someone work is owed to. Deleting a person cascades to their
// work items, board slots and history.
type Person struct {
	ID        string
	Name      string
	Role      string
	CreatedAt time.Time
}

// PersonTotal is the amount settled so far for one person, derived from the
// history ledger.
type PersonTotal struct {
	PersonID string
	Name     string
	Role     string
	Paid     Money
	Entries  int
}
