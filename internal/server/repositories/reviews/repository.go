package reviews

import (
	"context"

	"github.com/dmitrijs2005/triptales/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	ListByKey(ctx context.Context, key string, limit int) ([]*models.Review, error)
}
