package models

import "time"

// WorkItem is a unit of work owed to one person.
//
// Total is fixed at creation. Paid only grows, and only through settlement.
// Completed always equals Paid >= Total. Priority orders pending items in the
// backlog; lower is more urgent.
type WorkItem struct {
	ID          string
	PersonID    string
	Description string
	Total       Money
	Paid        Money
	Completed   bool
	Priority    int
	CreatedAt   time.Time
}

// Remaining is the balance still owed.
func (w *WorkItem) Remaining() Money {
	return w.Total.Sub(w.Paid)
}

// BacklogItem is a pending work item joined with its owner for display.
type BacklogItem struct {
	WorkItem
	PersonName string
	PersonRole string
	Slotted    bool
}
