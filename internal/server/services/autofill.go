package services

import (
	"context"

	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/server/models"
)

// RunAutoFill fills empty board positions, lowest first, with the most urgent
// pending work items that are not already on the board. Each new slot pays
// the item's full remaining balance. It returns the number of slots created;
// on a full board or an exhausted backlog it changes nothing.
func (s *Scheduler) RunAutoFill(ctx context.Context) (int, error) {
	var filled, occupied int

	err := s.write(ctx, "auto-fill", func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		filled, occupied, err = s.autoFill(ctx, tx)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.recorder.BoardOccupancy(occupied)
	if filled > 0 {
		s.recorder.SlotsFilled(filled)
		s.logger.Info(ctx, "board auto-filled", "filled", filled, "occupied", occupied)
	}
	return filled, nil
}

func (s *Scheduler) autoFill(ctx context.Context, tx dbx.DBTX) (int, int, error) {
	slotRepo := s.repomanager.Slots(tx)

	slots, err := slotRepo.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	board, err := buildBoard(slots)
	if err != nil {
		return 0, 0, err
	}
	free := freePositions(board)
	if len(free) == 0 {
		return 0, len(slots), nil
	}

	backlog, err := s.repomanager.WorkItems(tx).ListPending(ctx)
	if err != nil {
		return 0, 0, err
	}

	now := s.now()
	filled := 0
	for _, item := range backlog {
		if filled == len(free) {
			break
		}
		if item.Slotted || !item.Remaining().IsPositive() {
			continue
		}

		slot := &models.BoardSlot{
			Position:    free[filled],
			WorkItemID:  item.ID,
			PersonID:    item.PersonID,
			PersonName:  item.PersonName,
			PersonRole:  item.PersonRole,
			Description: item.Description,
			Amount:      item.Remaining(),
			CreatedAt:   now,
		}
		if _, err := slotRepo.Create(ctx, slot); err != nil {
			return 0, 0, err
		}
		filled++
	}
	return filled, len(slots) + filled, nil
}
