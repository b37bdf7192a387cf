package slots

import (
	"context"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.BoardSlot, error)
	Get(ctx context.Context, id string) (*models.BoardSlot, error)
	Create(ctx context.Context, s *models.BoardSlot) (*models.BoardSlot, error)
	SetAmount(ctx context.Context, id string, amount models.Money) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
