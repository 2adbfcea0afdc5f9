// Package reviews provides the PostgreSQL-backed review repository.
package reviews

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/triptales/internal/dbx"
	"github.com/dmitrijs2005/triptales/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	query :=
		`INSERT INTO itinerary_reviews (itinerary_key, author_name, review_text, rating)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		review.ItineraryKey, review.AuthorName, review.Text, review.Rating).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return review, nil
}

// ListByKey returns the newest reviews for key first.
func (r *PostgresRepository) ListByKey(ctx context.Context, key string, limit int) ([]*models.Review, error) {
	query :=
		`SELECT id, itinerary_key, author_name, review_text, rating, created_at
		 FROM itinerary_reviews
		 WHERE itinerary_key = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select reviews: %w", err)
	}
	defer rows.Close()

	var result []*models.Review
	for rows.Next() {
		var item models.Review
		if err := rows.Scan(&item.ID, &item.ItineraryKey, &item.AuthorName, &item.Text, &item.Rating, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
