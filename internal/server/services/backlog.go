package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/payrun/internal/common"
	"github.com/dmitrijs2005/payrun/internal/dbx"
	"github.com/dmitrijs2005/payrun/internal/server/models"
)

// ListBacklog returns the pending work items in fill order.
func (s *Scheduler) ListBacklog(ctx context.Context) ([]*models.BacklogItem, error) {
	items, err := s.repomanager.WorkItems(s.db).ListPending(ctx)
	if err != nil {
		return nil, classify("list backlog", err)
	}
	return items, nil
}

// ReorderBacklog moves a pending item to newIndex (clamped to the backlog
// bounds) and rewrites the priorities of the whole backlog to 0..N-1.
func (s *Scheduler) ReorderBacklog(ctx context.Context, itemID string, newIndex int) ([]*models.BacklogItem, error) {
	var result []*models.BacklogItem

	err := s.write(ctx, "reorder backlog", func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.WorkItems(tx)

		items, err := repo.ListPending(ctx)
		if err != nil {
			return err
		}

		from := -1
		for i, it := range items {
			if it.ID == itemID {
				from = i
				break
			}
		}
		if from < 0 {
			return fmt.Errorf("pending work item %s: %w", itemID, common.ErrorNotFound)
		}

		items = moveIndex(items, from, clamp(newIndex, 0, len(items)-1))
		if err := renumber(ctx, repo, items); err != nil {
			return err
		}
		result = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "backlog reordered", "work_item_id", itemID, "index", clamp(newIndex, 0, len(result)-1))
	return result, nil
}

// sendToBack gives a pending item the lowest urgency and closes any gaps in
// the backlog ranks.
func (s *Scheduler) sendToBack(ctx context.Context, tx dbx.DBTX, itemID string) error {
	repo := s.repomanager.WorkItems(tx)

	items, err := repo.ListPending(ctx)
	if err != nil {
		return err
	}
	for i, it := range items {
		if it.ID == itemID {
			return renumber(ctx, repo, moveIndex(items, i, len(items)-1))
		}
	}
	return renumber(ctx, repo, items)
}
