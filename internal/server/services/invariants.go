package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/payrun/internal/common"
	"github.com/dmitrijs2005/payrun/internal/server/models"
	"github.com/dmitrijs2005/payrun/internal/server/repositories/workitems"
)

// moveIndex returns a copy of xs with the element at from moved to to. The
// relative order of every other element is preserved.
func moveIndex[T any](xs []T, from, to int) []T {
	out := make([]T, 0, len(xs))
	out = append(out, xs[:from]...)
	out = append(out, xs[from+1:]...)

	moved := xs[from]
	out = append(out, moved)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = moved
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// buildBoard lays the occupied slots out over every board position and checks
// the capacity, position and single-slot-per-item invariants.
func buildBoard(slots []*models.BoardSlot) ([]models.BoardPosition, error) {
	if len(slots) > models.BoardCapacity {
		return nil, fmt.Errorf("%d slots exceed capacity %d: %w", len(slots), models.BoardCapacity, common.ErrConflict)
	}

	board := make([]models.BoardPosition, models.BoardCapacity)
	for i := range board {
		board[i].Position = i
	}

	items := make(map[string]bool, len(slots))
	for _, sl := range slots {
		if sl.Position < 0 || sl.Position >= models.BoardCapacity {
			return nil, fmt.Errorf("slot %s at position %d: %w", sl.ID, sl.Position, common.ErrConflict)
		}
		if board[sl.Position].Slot != nil {
			return nil, fmt.Errorf("position %d claimed twice: %w", sl.Position, common.ErrConflict)
		}
		if items[sl.WorkItemID] {
			return nil, fmt.Errorf("work item %s slotted twice: %w", sl.WorkItemID, common.ErrConflict)
		}
		items[sl.WorkItemID] = true
		board[sl.Position].Slot = sl
	}
	return board, nil
}

// freePositions lists the empty positions of a board in ascending order.
func freePositions(board []models.BoardPosition) []int {
	var free []int
	for _, p := range board {
		if p.Empty() {
			free = append(free, p.Position)
		}
	}
	return free
}

// applyPayment computes the balance of item after paying amount. Paying more
// than is owed, paying a completed item or paying a non-positive amount is a
// conflict with the item's current state.
func applyPayment(item *models.WorkItem, amount models.Money) (models.Money, bool, error) {
	if !amount.IsPositive() {
		return models.Zero, false, fmt.Errorf("amount %s for work item %s: %w", amount, item.ID, common.ErrConflict)
	}
	if item.Completed {
		return models.Zero, false, fmt.Errorf("work item %s already completed: %w", item.ID, common.ErrConflict)
	}
	paid := item.Paid.Add(amount)
	if paid.GreaterThan(item.Total) {
		return models.Zero, false, fmt.Errorf("paying %s exceeds remaining %s of work item %s: %w",
			amount, item.Remaining(), item.ID, common.ErrConflict)
	}
	return paid, paid.GreaterThanOrEqual(item.Total), nil
}

// renumber writes contiguous priorities 0..len-1 following the order of
// items, touching only rows whose priority changes.
func renumber(ctx context.Context, repo workitems.Repository, items []*models.BacklogItem) error {
	for i, it := range items {
		if it.Priority == i {
			continue
		}
		if err := repo.SetPriority(ctx, it.ID, i); err != nil {
			return err
		}
		it.Priority = i
	}
	return nil
}
