package history

import (
	"context"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

type Repository interface {
	Append(ctx context.Context, e *models.HistoryEntry) (*models.HistoryEntry, error)
	List(ctx context.Context) ([]*models.HistoryEntry, error)
	AmountsByWorkItem(ctx context.Context) (map[string]models.Money, error)
}
