package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/dbx"
	"github.com/dmitrijs2005/triptales/internal/server/models"
	"github.com/dmitrijs2005/triptales/internal/server/proof"
	"github.com/dmitrijs2005/triptales/internal/server/repositories/itineraries"
	"github.com/dmitrijs2005/triptales/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/triptales/internal/server/repositories/users"
	"github.com/dmitrijs2005/triptales/internal/server/storage"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	nextID  int64
	getErr  error
	created int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.byEmail[u.Email] = &cp
	f.created++
	return &cp, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// --- itineraries ---

type fakeItinerariesRepo struct {
	rows      []*models.Itinerary
	createErr error
	listErr   error
}

func (f *fakeItinerariesRepo) Create(_ context.Context, it *models.Itinerary) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *it
	cp.Proof.Verification = proof.Verdict{}
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeItinerariesRepo) find(id string) (int, bool) {
	for i, r := range f.rows {
		if r.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (f *fakeItinerariesRepo) Get(_ context.Context, id string) (*models.Itinerary, error) {
	i, ok := f.find(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *f.rows[i]
	return &cp, nil
}

func (f *fakeItinerariesRepo) filtered(status string) []*models.Itinerary {
	var out []*models.Itinerary
	for _, r := range f.rows {
		if status == "" || r.ReviewStatus == status {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out
}

func (f *fakeItinerariesRepo) List(_ context.Context, status string, limit int) ([]*models.Itinerary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := f.filtered(status)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeItinerariesRepo) Count(_ context.Context, status string) (int64, error) {
	return int64(len(f.filtered(status))), nil
}

func (f *fakeItinerariesRepo) DeleteOldest(context.Context) (*models.Itinerary, error) {
	if len(f.rows) == 0 {
		return nil, common.ErrNotFound
	}
	oldest := 0
	for i, r := range f.rows {
		o := f.rows[oldest]
		if r.CreatedAt.Before(o.CreatedAt) || (r.CreatedAt.Equal(o.CreatedAt) && r.ID < o.ID) {
			oldest = i
		}
	}
	it := f.rows[oldest]
	f.rows = append(f.rows[:oldest], f.rows[oldest+1:]...)
	return it, nil
}

func (f *fakeItinerariesRepo) UpdateStatus(_ context.Context, id, status string, note *string, reviewedAt time.Time) (*models.Itinerary, error) {
	i, ok := f.find(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	r := f.rows[i]
	r.ReviewStatus = status
	r.ReviewNote = note
	r.ReviewedAt = &reviewedAt
	cp := *r
	return &cp, nil
}

// --- reviews ---

type fakeReviewsRepo struct {
	rows      []*models.Review
	err       error
	lastLimit int
}

func (f *fakeReviewsRepo) Create(_ context.Context, r *models.Review) (*models.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *r
	cp.ID = int64(len(f.rows) + 1)
	cp.CreatedAt = time.Now()
	f.rows = append(f.rows, &cp)
	return &cp, nil
}

func (f *fakeReviewsRepo) ListByKey(_ context.Context, key string, limit int) ([]*models.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastLimit = limit
	var out []*models.Review
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ItineraryKey == key {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

// --- manager ---

type fakeRepoManager struct {
	u  *fakeUsersRepo
	it *fakeItinerariesRepo
	rv *fakeReviewsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Itineraries(dbx.DBTX) itineraries.Repository { return m.it }
func (m *fakeRepoManager) Reviews(dbx.DBTX) reviews.Repository         { return m.rv }

// --- photos ---

type fakePhotoStore struct {
	files  map[string][]byte
	putErr error
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{files: map[string][]byte{}}
}

func (f *fakePhotoStore) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.files[name] = data
	return storage.PublicPath(name), nil
}

func (f *fakePhotoStore) Delete(_ context.Context, name string) error {
	delete(f.files, name)
	return nil
}

func (f *fakePhotoStore) Locate(_ context.Context, name string) (storage.Location, error) {
	if _, ok := f.files[name]; !ok {
		return storage.Location{}, common.ErrNotFound
	}
	return storage.Location{FilePath: name}, nil
}

// --- metrics ---

type countingMetrics struct {
	created, evicted, loginFailed int
	statuses                      []string
}

func (c *countingMetrics) RecordItineraryCreated(proof.Verdict)                 { c.created++ }
func (c *countingMetrics) RecordItineraryEvicted()                              { c.evicted++ }
func (c *countingMetrics) RecordStatusChange(s string)                          { c.statuses = append(c.statuses, s) }
func (c *countingMetrics) RecordLoginFailure()                                  { c.loginFailed++ }
func (c *countingMetrics) RecordHTTPRequest(string, string, int, time.Duration) {}

var errBoom = errors.New("boom")
