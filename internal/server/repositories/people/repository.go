package people

import (
	"context"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Person) (*models.Person, error)
	Get(ctx context.Context, id string) (*models.Person, error)
	List(ctx context.Context) ([]*models.Person, error)
	Delete(ctx context.Context, id string) error
}
