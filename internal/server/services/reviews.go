package services

import (
	"context"
	"database/sql"
	"math"
	"strings"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/logging"
	"github.com/dmitrijs2005/triptales/internal/server/models"
	"github.com/dmitrijs2005/triptales/internal/server/repositories/repomanager"
)

const (
	defaultAuthorName = "Traveler"
	defaultRating     = 5.0
	maxReviewsListed  = 100
)

type CreateReviewInput struct {
	ItineraryKey string
	AuthorName   string
	Text         string
	// Rating defaults to 5 when nil.
	Rating *float64
}

type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ReviewService {
	return &ReviewService{db: db, repomanager: m, log: log.With("module", "reviews")}
}

func (s *ReviewService) Create(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	key := strings.TrimSpace(in.ItineraryKey)
	if err := requireLength("itineraryKey", key, 1, 120); err != nil {
		return nil, err
	}

	author := plainText(in.AuthorName)
	if author == "" {
		author = defaultAuthorName
	}
	if err := requireLength("authorName", author, 1, 40); err != nil {
		return nil, err
	}

	text := plainText(in.Text)
	if err := requireLength("reviewText", text, 1, 500); err != nil {
		return nil, err
	}

	rating := defaultRating
	if in.Rating != nil {
		rating = *in.Rating
	}
	if math.IsNaN(rating) || rating < 1 || rating > 5 {
		return nil, invalid("rating must be between 1 and 5")
	}

	review, err := s.repomanager.Reviews(s.db).Create(ctx, &models.Review{
		ItineraryKey: key,
		AuthorName:   author,
		Text:         text,
		Rating:       rating,
	})
	if err != nil {
		s.log.Error(ctx, "create review", "error", err)
		return nil, common.ErrInternal
	}
	return review, nil
}

// List returns up to 100 reviews for key, newest first.
func (s *ReviewService) List(ctx context.Context, key string) ([]*models.Review, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, invalid("itineraryKey is required")
	}

	items, err := s.repomanager.Reviews(s.db).ListByKey(ctx, key, maxReviewsListed)
	if err != nil {
		s.log.Error(ctx, "list reviews", "error", err)
		return nil, common.ErrInternal
	}
	return items, nil
}
