package itineraries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/triptales/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, it *models.Itinerary) error
	Get(ctx context.Context, id string) (*models.Itinerary, error)
	// List returns up to limit itineraries, newest first. An empty status
	// means all statuses.
	List(ctx context.Context, status string, limit int) ([]*models.Itinerary, error)
	Count(ctx context.Context, status string) (int64, error)
	// DeleteOldest removes the single oldest itinerary and returns it.
	DeleteOldest(ctx context.Context) (*models.Itinerary, error)
	UpdateStatus(ctx context.Context, id, status string, note *string, reviewedAt time.Time) (*models.Itinerary, error)
}
