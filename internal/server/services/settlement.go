package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/payrun/internal/common"
	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/server/models"
	"github.com/google/uuid"
)

// SettleSlot pays one slot: it appends the history entry, raises the work
// item's paid amount (completing it when fully paid) and deletes the slot, all
// in one transaction. The board is refilled after commit.
func (s *Scheduler) SettleSlot(ctx context.Context, slotID string) (*models.HistoryEntry, error) {
	var entry *models.HistoryEntry

	err := s.write(ctx, "settle slot", func(ctx context.Context, tx dbx.DBTX) error {
		slot, err := s.repomanager.Slots(tx).Get(ctx, slotID)
		if err != nil {
			return err
		}
		if entry, err = s.settle(ctx, tx, slot, s.now()); err != nil {
			return err
		}
		return s.repomanager.Slots(tx).Delete(ctx, slotID)
	})
	if err != nil {
		return nil, err
	}

	s.recorder.SlotSettled(entry.Amount)
	s.logger.Info(ctx, "slot settled", "slot_id", slotID, "work_item_id", entry.WorkItemID, "amount", entry.Amount.String())

	s.refill(ctx, "settle slot")
	return entry, nil
}

// ApproveBoard settles every occupied slot and clears the board as a single
// transaction. Either every payment is recorded and the board is empty, or
// nothing changes.
func (s *Scheduler) ApproveBoard(ctx context.Context) (*models.Run, error) {
	run := &models.Run{ID: uuid.NewString(), Total: models.Zero}

	err := s.write(ctx, "approve board", func(ctx context.Context, tx dbx.DBTX) error {
		slotRepo := s.repomanager.Slots(tx)

		slots, err := slotRepo.List(ctx)
		if err != nil {
			return err
		}
		if len(slots) == 0 {
			return common.ErrEmptyBoard
		}
		if _, err := buildBoard(slots); err != nil {
			return err
		}

		run.ApprovedAt = s.now()
		for _, slot := range slots {
			entry, err := s.settle(ctx, tx, slot, run.ApprovedAt)
			if err != nil {
				return fmt.Errorf("slot %d: %w", slot.Position, err)
			}
			run.Entries = append(run.Entries, entry)
			run.Total = run.Total.Add(entry.Amount)
		}

		n, err := slotRepo.DeleteAll(ctx)
		if err != nil {
			return err
		}
		if n != int64(len(slots)) {
			return fmt.Errorf("cleared %d slots, expected %d: %w", n, len(slots), common.ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.BoardApproved(len(run.Entries), run.Total)
	s.logger.Info(ctx, "board approved", "run_id", run.ID, "slots", len(run.Entries), "total", run.Total.String())

	if s.archiver != nil {
		if err := s.archiver.ArchiveRun(ctx, run); err != nil {
			s.logger.Error(ctx, "archiving run receipt failed", "run_id", run.ID, "error", err)
		}
	}

	s.refill(ctx, "approve board")
	return run, nil
}

// settle records the payment of one slot against its work item. The slot
// itself is left to the caller.
func (s *Scheduler) settle(ctx context.Context, tx dbx.DBTX, slot *models.BoardSlot, at time.Time) (*models.HistoryEntry, error) {
	item, err := s.repomanager.WorkItems(tx).Get(ctx, slot.WorkItemID)
	if err != nil {
		return nil, err
	}

	paid, completed, err := applyPayment(item, slot.Amount)
	if err != nil {
		return nil, err
	}

	entry, err := s.repomanager.History(tx).Append(ctx, &models.HistoryEntry{
		PersonID:    item.PersonID,
		WorkItemID:  item.ID,
		PersonName:  slot.PersonName,
		Description: item.Description,
		Amount:      slot.Amount,
		CreatedAt:   at,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repomanager.WorkItems(tx).ApplyPayment(ctx, item.ID, paid, completed); err != nil {
		return nil, err
	}
	return entry, nil
}
