// Package itineraries provides the PostgreSQL-backed itinerary repository.
package itineraries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/dbx"
	"github.com/dmitrijs2005/triptales/internal/server/models"
)

const columns = `id, title, route, duration, budget, highlights, review_status,
		created_by_user_id, created_at, reviewed_at, review_note,
		proof_latitude, proof_longitude, proof_photo_url, proof_mime_type, proof_size_bytes,
		proof_distance_km, proof_within_5km, proof_match_place`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItinerary(s scanner) (*models.Itinerary, error) {
	var (
		it         models.Itinerary
		createdBy  sql.NullInt64
		reviewedAt sql.NullTime
		note       sql.NullString
		distance   sql.NullFloat64
		within     bool
		place      sql.NullString
	)

	err := s.Scan(
		&it.ID, &it.Title, &it.Route, &it.Duration, &it.Budget, &it.Highlights, &it.ReviewStatus,
		&createdBy, &it.CreatedAt, &reviewedAt, &note,
		&it.Proof.Latitude, &it.Proof.Longitude, &it.Proof.PhotoPath, &it.Proof.PhotoMime, &it.Proof.PhotoSize,
		&distance, &within, &place,
	)
	if err != nil {
		return nil, err
	}

	if createdBy.Valid {
		it.CreatedBy = &createdBy.Int64
	}
	if reviewedAt.Valid {
		it.ReviewedAt = &reviewedAt.Time
	}
	if note.Valid {
		it.ReviewNote = &note.String
	}
	if distance.Valid {
		it.Proof.Stored.DistanceKm = &distance.Float64
	}
	if place.Valid {
		it.Proof.Stored.MatchedPlace = &place.String
	}
	it.Proof.Stored.WithinRadius = &within

	return &it, nil
}

func (r *PostgresRepository) Create(ctx context.Context, it *models.Itinerary) error {
	query := `
		INSERT INTO itineraries (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	within := it.Proof.Stored.WithinRadius != nil && *it.Proof.Stored.WithinRadius

	_, err := r.db.ExecContext(ctx, query,
		it.ID, it.Title, it.Route, it.Duration, it.Budget, it.Highlights, it.ReviewStatus,
		it.CreatedBy, it.CreatedAt, it.ReviewedAt, it.ReviewNote,
		it.Proof.Latitude, it.Proof.Longitude, it.Proof.PhotoPath, it.Proof.PhotoMime, it.Proof.PhotoSize,
		it.Proof.Stored.DistanceKm, within, it.Proof.Stored.MatchedPlace,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	query := `SELECT ` + columns + ` FROM itineraries WHERE id = $1`

	it, err := scanItinerary(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return it, nil
}

func (r *PostgresRepository) List(ctx context.Context, status string, limit int) ([]*models.Itinerary, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		query := `SELECT ` + columns + ` FROM itineraries ORDER BY created_at DESC LIMIT $1`
		rows, err = r.db.QueryContext(ctx, query, limit)
	} else {
		query := `SELECT ` + columns + ` FROM itineraries WHERE review_status = $1 ORDER BY created_at DESC LIMIT $2`
		rows, err = r.db.QueryContext(ctx, query, status, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select itineraries: %w", err)
	}
	defer rows.Close()

	var result []*models.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, status string) (int64, error) {
	var (
		n   int64
		err error
	)
	if status == "" {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM itineraries`).Scan(&n)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM itineraries WHERE review_status = $1`, status).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// DeleteOldest evicts by created_at, with id breaking ties so that exactly one
// row goes. Returns common.ErrNotFound on an empty table.
func (r *PostgresRepository) DeleteOldest(ctx context.Context) (*models.Itinerary, error) {
	query := `
		DELETE FROM itineraries
		WHERE id = (SELECT id FROM itineraries ORDER BY created_at ASC, id ASC LIMIT 1)
		RETURNING ` + columns

	it, err := scanItinerary(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return it, nil
}

// UpdateStatus sets the review fields in one statement and returns the
// updated row.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string, note *string, reviewedAt time.Time) (*models.Itinerary, error) {
	query := `
		UPDATE itineraries
		SET review_status = $2, reviewed_at = $3, review_note = $4
		WHERE id = $1
		RETURNING ` + columns

	it, err := scanItinerary(r.db.QueryRowContext(ctx, query, id, status, reviewedAt, note))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return it, nil
}
