package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/payrun/internal/common"
	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/server/models"
)

// ListSlots returns all BoardCapacity positions, occupied or empty.
func (s *Scheduler) ListSlots(ctx context.Context) ([]models.BoardPosition, error) {
	slots, err := s.repomanager.Slots(s.db).List(ctx)
	if err != nil {
		return nil, classify("list slots", err)
	}
	board, err := buildBoard(slots)
	if err != nil {
		return nil, classify("list slots", err)
	}
	return board, nil
}

// RemoveSlot cancels the payment intent for one slot. The work item's
// balance is untouched; it goes to the back of the backlog so the next fill
// picks the next item in line.
func (s *Scheduler) RemoveSlot(ctx context.Context, slotID string) error {
	var removed *models.BoardSlot

	err := s.write(ctx, "remove slot", func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Slots(tx)

		slot, err := repo.Get(ctx, slotID)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, slotID); err != nil {
			return err
		}
		removed = slot
		return s.sendToBack(ctx, tx, slot.WorkItemID)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "slot removed", "slot_id", slotID, "work_item_id", removed.WorkItemID, "position", removed.Position)
	return nil
}

// ReorderSlots moves the occupied slot at index from to index to, where both
// index the occupied slots in position order. The occupied slots are then
// compacted onto positions 0..k-1; every position is rewritten in the same
// transaction.
func (s *Scheduler) ReorderSlots(ctx context.Context, from, to int) ([]models.BoardPosition, error) {
	var board []models.BoardPosition

	err := s.write(ctx, "reorder slots", func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Slots(tx)

		slots, err := repo.List(ctx)
		if err != nil {
			return err
		}
		k := len(slots)
		if from < 0 || from >= k || to < 0 || to >= k {
			return fmt.Errorf("move %d -> %d on a board of %d slots: %w", from, to, k, common.ErrConflict)
		}

		slots = moveIndex(slots, from, to)
		for i, sl := range slots {
			sl.Position = i
		}
		if board, err = buildBoard(slots); err != nil {
			return err
		}

		// Positions are unique, so rows are rewritten rather than updated in place.
		if _, err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		for _, sl := range slots {
			if _, err := repo.Create(ctx, sl); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "slots reordered", "from", from, "to", to)
	return board, nil
}

// AdjustSlotAmount changes how much of a work item's remaining balance the
// slot will pay, allowing partial settlement. amount must be positive and
// at most the remaining balance.
func (s *Scheduler) AdjustSlotAmount(ctx context.Context, slotID string, amount models.Money) (*models.BoardSlot, error) {
	if err := models.ValidateMoney(amount); err != nil {
		return nil, fmt.Errorf("adjust slot amount: %w", err)
	}

	var slot *models.BoardSlot

	err := s.write(ctx, "adjust slot amount", func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if slot, err = s.repomanager.Slots(tx).Get(ctx, slotID); err != nil {
			return err
		}
		item, err := s.repomanager.WorkItems(tx).Get(ctx, slot.WorkItemID)
		if err != nil {
			return err
		}
		if !amount.IsPositive() || amount.GreaterThan(item.Remaining()) {
			return fmt.Errorf("amount %s outside (0, %s]: %w", amount, item.Remaining(), common.ErrInvalidArgument)
		}
		if err := s.repomanager.Slots(tx).SetAmount(ctx, slotID, amount); err != nil {
			return err
		}
		slot.Amount = amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "slot amount adjusted", "slot_id", slotID, "amount", amount.String())
	return slot, nil
}
