package models

import "time"

// BoardCapacity is the number of positions on the weekly board.
const BoardCapacity = 10

// BoardSlot binds one work item to one board position for the current run.
// Amount is the portion of the item's remaining balance to be paid, which
// may be less than the full balance. The person and description fields are
// captured when the slot is filled.
type BoardSlot struct {
	ID          string
	Position    int
	WorkItemID  string
	PersonID    string
	PersonName  string
	PersonRole  string
	Description string
	Amount      Money
	CreatedAt   time.Time
}

// BoardPosition is one of the BoardCapacity positions of the board. Slot is
// nil for an empty position.
type BoardPosition struct {
	Position int
	Slot     *BoardSlot
}

// Empty reports whether no slot occupies the position.
func (p BoardPosition) Empty() bool {
	return p.Slot == nil
}
