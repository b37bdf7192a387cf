package workitems

import (
	"context"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, w *models.WorkItem) (*models.WorkItem, error)
	Get(ctx context.Context, id string) (*models.WorkItem, error)
	List(ctx context.Context) ([]*models.WorkItem, error)
	ListPending(ctx context.Context) ([]*models.BacklogItem, error)
	MaxPendingPriority(ctx context.Context) (int, error)
	SetPriority(ctx context.Context, id string, priority int) error
	ApplyPayment(ctx context.Context, id string, paid models.Money, completed bool) error
}
