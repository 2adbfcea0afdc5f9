package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/dbx"
	"github.com/dmitrijs2005/triptales/internal/logging"
	"github.com/dmitrijs2005/triptales/internal/server/auth"
	"github.com/dmitrijs2005/triptales/internal/server/config"
	"github.com/dmitrijs2005/triptales/internal/server/geo"
	"github.com/dmitrijs2005/triptales/internal/server/metrics"
	"github.com/dmitrijs2005/triptales/internal/server/models"
	"github.com/dmitrijs2005/triptales/internal/server/proof"
	"github.com/dmitrijs2005/triptales/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/triptales/internal/server/storage"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	maxReviewNote    = 500
)

// CreateItineraryInput is an itinerary submission as received from a client.
type CreateItineraryInput struct {
	Title        string
	Route        string
	Duration     string
	Budget       string
	Highlights   string
	Latitude     float64
	Longitude    float64
	PhotoDataURL string
}

// ItineraryService is the moderation store: it persists itineraries with
// their proof verdict and moves them through the review states.
type ItineraryService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	verifier       *proof.Verifier
	photos         storage.PhotoStore
	metrics        metrics.MetricsCollector
	log            logging.Logger
	maxItineraries int64
	maxImageBytes  int64
	now            func() time.Time
}

func NewItineraryService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	verifier *proof.Verifier, photos storage.PhotoStore, mc metrics.MetricsCollector, log logging.Logger) *ItineraryService {
	return &ItineraryService{
		db:             db,
		repomanager:    m,
		verifier:       verifier,
		photos:         photos,
		metrics:        mc,
		log:            log.With("module", "itineraries"),
		maxItineraries: cfg.MaxItineraries,
		maxImageBytes:  cfg.MaxImageBytes,
		now:            time.Now,
	}
}

// RadiusKm is the verifier threshold reported to readers.
func (s *ItineraryService) RadiusKm() float64 { return s.verifier.RadiusKm() }

func (in *CreateItineraryInput) normalize() error {
	in.Title = plainText(in.Title)
	in.Route = plainText(in.Route)
	in.Duration = plainText(in.Duration)
	in.Budget = plainText(in.Budget)
	in.Highlights = plainText(in.Highlights)

	checks := []struct {
		field, value string
		max          int
	}{
		{"title", in.Title, 120},
		{"route", in.Route, 220},
		{"duration", in.Duration, 60},
		{"budget", in.Budget, 80},
		{"highlights", in.Highlights, 1800},
	}
	for _, c := range checks {
		if err := requireLength(c.field, c.value, 1, c.max); err != nil {
			return err
		}
	}

	if !geo.ValidLatitude(in.Latitude) {
		return invalid("locationLatitude must be between -90 and 90")
	}
	if !geo.ValidLongitude(in.Longitude) {
		return invalid("locationLongitude must be between -180 and 180")
	}
	return nil
}

// Create validates the submission, computes its proof verdict, stores the
// photo and then inserts the row. At capacity the single oldest itinerary is
// evicted in the same transaction, under an advisory lock so that concurrent
// submissions evict one row each.
func (s *ItineraryService) Create(ctx context.Context, creator *auth.Claims, in CreateItineraryInput) (*models.Itinerary, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	photo, err := proof.DecodeDataURL(in.PhotoDataURL, s.maxImageBytes)
	if err != nil {
		return nil, err
	}

	lat := proof.RoundCoordinate(in.Latitude)
	lon := proof.RoundCoordinate(in.Longitude)
	verdict := s.verifier.Verify(in.Route, lat, lon)

	id, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	photoName := uuid.NewString() + "." + photo.Ext
	photoPath, err := s.photos.Put(ctx, photoName, photo.MimeType, photo.Data)
	if err != nil {
		s.log.Error(ctx, "store photo", "error", err)
		return nil, common.ErrInternal
	}

	it := &models.Itinerary{
		ID:           id,
		Title:        in.Title,
		Route:        in.Route,
		Duration:     in.Duration,
		Budget:       in.Budget,
		Highlights:   in.Highlights,
		CreatedAt:    s.now().UTC(),
		ReviewStatus: common.StatusPending,
		Proof: models.Proof{
			Latitude:     lat,
			Longitude:    lon,
			PhotoMime:    photo.MimeType,
			PhotoSize:    int64(len(photo.Data)),
			PhotoPath:    photoPath,
			Stored:       verdict.Snapshot(),
			Verification: verdict,
		},
	}
	if creator != nil {
		uid := creator.UserID
		it.CreatedBy = &uid
	}

	var evicted *models.Itinerary
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := dbx.AdvisoryXactLock(ctx, tx, dbx.LockItineraryCapacity); err != nil {
			return err
		}

		repo := s.repomanager.Itineraries(tx)

		n, err := repo.Count(ctx, "")
		if err != nil {
			return err
		}
		if n >= s.maxItineraries {
			evicted, err = repo.DeleteOldest(ctx)
			if err != nil && !errors.Is(err, common.ErrNotFound) {
				return err
			}
		}

		return repo.Create(ctx, it)
	})
	if err != nil {
		s.log.Error(ctx, "create itinerary", "error", err)
		s.removePhoto(ctx, photoPath)
		return nil, common.ErrInternal
	}

	if evicted != nil {
		s.metrics.RecordItineraryEvicted()
		s.log.Info(ctx, "itinerary evicted", "id", evicted.ID)
		s.removePhoto(ctx, evicted.Proof.PhotoPath)
	}
	s.metrics.RecordItineraryCreated(verdict)
	s.log.Info(ctx, "itinerary created", "id", it.ID, "outcome", metrics.Outcome(verdict))

	return it, nil
}

// removePhoto deletes a stored photo by its public path. Failures only leave
// an orphan object behind, so they are logged and not returned.
func (s *ItineraryService) removePhoto(ctx context.Context, publicPath string) {
	name, ok := strings.CutPrefix(publicPath, storage.PublicPrefix)
	if !ok {
		return
	}
	if err := s.photos.Delete(ctx, name); err != nil {
		s.log.Warn(ctx, "delete photo", "name", name, "error", err)
	}
}

func (s *ItineraryService) resolve(it *models.Itinerary) {
	it.Proof.Verification = s.verifier.Resolve(it.Proof.Stored, it.Route, it.Proof.Latitude, it.Proof.Longitude)
}

func (s *ItineraryService) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	it, err := s.repomanager.Itineraries(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: itinerary not found", common.ErrNotFound)
		}
		s.log.Error(ctx, "get itinerary", "id", id, "error", err)
		return nil, common.ErrInternal
	}
	s.resolve(it)
	return it, nil
}

// ClampLimit maps a requested page size onto [1, 200]; zero means the
// default of 50.
func ClampLimit(limit int) int {
	if limit == 0 {
		return defaultListLimit
	}
	return min(max(limit, 1), maxListLimit)
}

// List returns the newest itineraries. An unknown status lists all of them.
// Count and page are read in one read-only transaction so they agree.
func (s *ItineraryService) List(ctx context.Context, status string, limit int) (*models.ItineraryPage, error) {
	status, ok := normalizeStatus(status)
	if !ok {
		status = ""
	}
	limit = ClampLimit(limit)

	page := &models.ItineraryPage{}
	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := dbx.WithTx(ctx, s.db, opts, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Itineraries(tx)

		total, err := repo.Count(ctx, status)
		if err != nil {
			return err
		}
		items, err := repo.List(ctx, status, limit)
		if err != nil {
			return err
		}
		page.Total = total
		page.Items = items
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "list itineraries", "error", err)
		return nil, common.ErrInternal
	}

	for _, it := range page.Items {
		s.resolve(it)
	}
	return page, nil
}

// SetStatus moves an itinerary to status. Only admins may call it; the proof
// snapshot is left untouched. An empty note is stored as NULL.
func (s *ItineraryService) SetStatus(ctx context.Context, caller *auth.Claims, id, status, note string) (*models.Itinerary, error) {
	if caller == nil || caller.Role != common.RoleAdmin {
		return nil, common.ErrForbidden
	}

	status, ok := normalizeStatus(status)
	if !ok {
		return nil, invalid("reviewStatus must be one of: pending, approved, rejected")
	}

	note = plainText(note)
	if err := requireLength("reviewNote", note, 0, maxReviewNote); err != nil {
		return nil, err
	}
	var notePtr *string
	if note != "" {
		notePtr = &note
	}

	it, err := s.repomanager.Itineraries(s.db).UpdateStatus(ctx, id, status, notePtr, s.now().UTC())
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: itinerary not found", common.ErrNotFound)
		}
		s.log.Error(ctx, "update status", "id", id, "error", err)
		return nil, common.ErrInternal
	}

	s.metrics.RecordStatusChange(status)
	s.log.Info(ctx, "review status changed", "id", id, "status", status, "admin_id", caller.UserID)

	s.resolve(it)
	return it, nil
}
