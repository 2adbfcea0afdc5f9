package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/dbx"
	"github.com/dmitrijs2005/triptales/internal/logging"
	"github.com/dmitrijs2005/triptales/internal/server/auth"
	"github.com/dmitrijs2005/triptales/internal/server/config"
	"github.com/dmitrijs2005/triptales/internal/server/geo"
	"github.com/dmitrijs2005/triptales/internal/server/models"
	"github.com/dmitrijs2005/triptales/internal/server/proof"
	"github.com/dmitrijs2005/triptales/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itineraryFixture struct {
	svc     *ItineraryService
	mock    sqlmock.Sqlmock
	repo    *fakeItinerariesRepo
	photos  *fakePhotoStore
	metrics *countingMetrics
}

func newItineraryFixture(t *testing.T, capacity int64) *itineraryFixture {
	t.Helper()
	db, mock := newSQLMockDB(t)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.MaxItineraries = capacity

	f := &itineraryFixture{
		mock:    mock,
		repo:    &fakeItinerariesRepo{},
		photos:  newFakePhotoStore(),
		metrics: &countingMetrics{},
	}
	verifier := proof.NewVerifier(geo.NewDefaultGazetteer(), proof.DefaultRadiusKm)
	f.svc = NewItineraryService(db, &fakeRepoManager{it: f.repo}, cfg, verifier, f.photos, f.metrics, logging.Nop{})

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	f.svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return f
}

func (f *itineraryFixture) expectCreateTx() {
	f.mock.ExpectBegin()
	f.mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs(dbx.LockItineraryCapacity).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectCommit()
}

func pngDataURL(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func validInput(title string) CreateItineraryInput {
	return CreateItineraryInput{
		Title:        title,
		Route:        "Srinagar - Gulmarg - Pahalgam",
		Duration:     "5 days",
		Budget:       "INR 40,000",
		Highlights:   "Shikara ride, gondola",
		Latitude:     34.0837,
		Longitude:    74.7973,
		PhotoDataURL: pngDataURL("photo:" + title),
	}
}

func photoName(it *models.Itinerary) string {
	return strings.TrimPrefix(it.Proof.PhotoPath, storage.PublicPrefix)
}

func TestCreate_StoresVerdictAndPhoto(t *testing.T) {
	f := newItineraryFixture(t, 10)
	f.expectCreateTx()

	creator := &auth.Claims{UserID: 42, Role: common.RoleUser}
	it, err := f.svc.Create(context.Background(), creator, validInput("Kashmir loop"))
	require.NoError(t, err)

	assert.Len(t, it.ID, 32)
	assert.Equal(t, common.StatusPending, it.ReviewStatus)
	require.NotNil(t, it.CreatedBy)
	assert.Equal(t, int64(42), *it.CreatedBy)

	v := it.Proof.Verification
	require.True(t, v.Available)
	assert.Equal(t, "srinagar", *v.MatchedPlace)
	assert.Equal(t, 0.0, *v.DistanceKm)
	assert.True(t, v.WithinRadius)

	require.NotNil(t, it.Proof.Stored.WithinRadius)
	assert.True(t, *it.Proof.Stored.WithinRadius)

	assert.Equal(t, "image/png", it.Proof.PhotoMime)
	assert.True(t, strings.HasPrefix(it.Proof.PhotoPath, storage.PublicPrefix))
	assert.True(t, strings.HasSuffix(it.Proof.PhotoPath, ".png"))
	assert.Equal(t, []byte("photo:Kashmir loop"), f.photos.files[photoName(it)])
	assert.Equal(t, int64(len("photo:Kashmir loop")), it.Proof.PhotoSize)

	assert.Len(t, f.repo.rows, 1)
	assert.Equal(t, 1, f.metrics.created)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreate_AnonymousAndUnverifiable(t *testing.T) {
	f := newItineraryFixture(t, 10)
	f.expectCreateTx()

	in := validInput("Somewhere")
	in.Route = "Mystery tour"
	it, err := f.svc.Create(context.Background(), nil, in)
	require.NoError(t, err)

	assert.Nil(t, it.CreatedBy)
	assert.False(t, it.Proof.Verification.Available)
	assert.Nil(t, it.Proof.Verification.MatchedPlace)
	assert.Nil(t, it.Proof.Stored.MatchedPlace)
	require.NotNil(t, it.Proof.Stored.WithinRadius)
	assert.False(t, *it.Proof.Stored.WithinRadius)
}

func TestCreate_RoundsCoordinates(t *testing.T) {
	f := newItineraryFixture(t, 10)
	f.expectCreateTx()

	in := validInput("Rounding")
	in.Latitude = 34.08370049
	in.Longitude = 74.79730051
	it, err := f.svc.Create(context.Background(), nil, in)
	require.NoError(t, err)

	assert.Equal(t, 34.0837, it.Proof.Latitude)
	assert.Equal(t, 74.797301, it.Proof.Longitude)
}

func TestCreate_EvictsOldestAtCapacity(t *testing.T) {
	const capacity = 3
	f := newItineraryFixture(t, capacity)
	ctx := context.Background()

	var created []*models.Itinerary
	for i := range 5 {
		f.expectCreateTx()
		it, err := f.svc.Create(ctx, nil, validInput(fmt.Sprintf("Trip %d", i)))
		require.NoError(t, err)
		created = append(created, it)
		assert.LessOrEqual(t, len(f.repo.rows), capacity)
	}

	require.Len(t, f.repo.rows, capacity)
	var kept []string
	for _, r := range f.repo.rows {
		kept = append(kept, r.ID)
	}
	assert.ElementsMatch(t, []string{created[2].ID, created[3].ID, created[4].ID}, kept)

	assert.Equal(t, 2, f.metrics.evicted)
	assert.Equal(t, 5, f.metrics.created)

	assert.NotContains(t, f.photos.files, photoName(created[0]))
	assert.NotContains(t, f.photos.files, photoName(created[1]))
	for _, it := range created[2:] {
		assert.Contains(t, f.photos.files, photoName(it))
	}
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreate_RollbackRemovesPhoto(t *testing.T) {
	f := newItineraryFixture(t, 10)
	f.repo.createErr = errBoom

	f.mock.ExpectBegin()
	f.mock.ExpectExec("pg_advisory_xact_lock").
		WithArgs(dbx.LockItineraryCapacity).
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectRollback()

	_, err := f.svc.Create(context.Background(), nil, validInput("Doomed"))
	assert.ErrorIs(t, err, common.ErrInternal)
	assert.Empty(t, f.photos.files)
	assert.Equal(t, 0, f.metrics.created)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreate_LockFailure(t *testing.T) {
	f := newItineraryFixture(t, 10)

	f.mock.ExpectBegin()
	f.mock.ExpectExec("pg_advisory_xact_lock").WillReturnError(errBoom)
	f.mock.ExpectRollback()

	_, err := f.svc.Create(context.Background(), nil, validInput("Locked out"))
	assert.ErrorIs(t, err, common.ErrInternal)
	assert.Empty(t, f.repo.rows)
	assert.Empty(t, f.photos.files)
}

func TestCreate_PhotoStoreFailure(t *testing.T) {
	f := newItineraryFixture(t, 10)
	f.photos.putErr = errBoom

	_, err := f.svc.Create(context.Background(), nil, validInput("No disk"))
	assert.ErrorIs(t, err, common.ErrInternal)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreate_Validation(t *testing.T) {
	f := newItineraryFixture(t, 10)

	tests := []struct {
		name   string
		mutate func(in *CreateItineraryInput)
		tooBig bool
	}{
		{"blank title", func(in *CreateItineraryInput) { in.Title = "  " }, false},
		{"long title", func(in *CreateItineraryInput) { in.Title = strings.Repeat("t", 121) }, false},
		{"long route", func(in *CreateItineraryInput) { in.Route = strings.Repeat("r", 221) }, false},
		{"blank duration", func(in *CreateItineraryInput) { in.Duration = "" }, false},
		{"long budget", func(in *CreateItineraryInput) { in.Budget = strings.Repeat("b", 81) }, false},
		{"long highlights", func(in *CreateItineraryInput) { in.Highlights = strings.Repeat("h", 1801) }, false},
		{"latitude", func(in *CreateItineraryInput) { in.Latitude = 90.5 }, false},
		{"longitude", func(in *CreateItineraryInput) { in.Longitude = -181 }, false},
		{"missing photo", func(in *CreateItineraryInput) { in.PhotoDataURL = "" }, false},
		{"gif photo", func(in *CreateItineraryInput) { in.PhotoDataURL = "data:image/gif;base64,AAAA" }, false},
		{"huge photo", func(in *CreateItineraryInput) {
			in.PhotoDataURL = pngDataURL(strings.Repeat("x", 5*1024*1024+1))
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput("Valid")
			tt.mutate(&in)
			_, err := f.svc.Create(context.Background(), nil, in)
			assert.ErrorIs(t, err, common.ErrInvalidArgument)
			assert.Equal(t, tt.tooBig, errors.Is(err, common.ErrPayloadTooLarge))
		})
	}
	assert.Empty(t, f.photos.files)
	assert.Empty(t, f.repo.rows)
}

func TestGet_RecomputesLegacyRows(t *testing.T) {
	f := newItineraryFixture(t, 10)
	f.repo.rows = []*models.Itinerary{{
		ID:           "legacy",
		Route:        "Jammu to Katra",
		ReviewStatus: common.StatusApproved,
		Proof:        models.Proof{Latitude: 32.9916, Longitude: 74.9319},
	}}

	it, err := f.svc.Get(context.Background(), "legacy")
	require.NoError(t, err)

	v := it.Proof.Verification
	require.True(t, v.Available)
	assert.Equal(t, "katra", *v.MatchedPlace)
	assert.Equal(t, 0.0, *v.DistanceKm)
	assert.True(t, v.WithinRadius)
}

func TestGet_PrefersStoredSnapshot(t *testing.T) {
	f := newItineraryFixture(t, 10)
	place, dist, within := "srinagar", 12.5, false
	f.repo.rows = []*models.Itinerary{{
		ID:    "snap",
		Route: "Jammu",
		Proof: models.Proof{
			Latitude: 32.7266, Longitude: 74.8570,
			Stored: proof.Snapshot{MatchedPlace: &place, DistanceKm: &dist, WithinRadius: &within},
		},
	}}

	it, err := f.svc.Get(context.Background(), "snap")
	require.NoError(t, err)
	assert.Equal(t, "srinagar", *it.Proof.Verification.MatchedPlace)
	assert.Equal(t, 12.5, *it.Proof.Verification.DistanceKm)
	assert.False(t, it.Proof.Verification.WithinRadius)
}

func TestGet_NotFound(t *testing.T) {
	f := newItineraryFixture(t, 10)
	_, err := f.svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClampLimit(t *testing.T) {
	t.Parallel()
	for in, want := range map[int]int{0: 50, -5: 1, 1: 1, 75: 75, 200: 200, 201: 200, 10000: 200} {
		assert.Equal(t, want, ClampLimit(in), "limit %d", in)
	}
}

func TestList_FiltersAndCounts(t *testing.T) {
	f := newItineraryFixture(t, 10)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, st := range []string{common.StatusPending, common.StatusApproved, common.StatusPending, common.StatusRejected} {
		f.repo.rows = append(f.repo.rows, &models.Itinerary{
			ID:           fmt.Sprintf("it-%d", i),
			Route:        "Srinagar",
			ReviewStatus: st,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
	}

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	page, err := f.svc.List(context.Background(), " PENDING ", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "it-2", page.Items[0].ID)
	assert.Equal(t, "it-0", page.Items[1].ID)
	assert.True(t, page.Items[0].Proof.Verification.Available)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	page, err = f.svc.List(context.Background(), "bogus", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "it-3", page.Items[0].ID)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestList_RepoError(t *testing.T) {
	f := newItineraryFixture(t, 10)
	f.repo.listErr = errBoom

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err := f.svc.List(context.Background(), "", 10)
	assert.ErrorIs(t, err, common.ErrInternal)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSetStatus(t *testing.T) {
	f := newItineraryFixture(t, 10)
	place, dist, within := "srinagar", 0.0, true
	f.repo.rows = []*models.Itinerary{{
		ID:           "abc",
		Route:        "Srinagar",
		ReviewStatus: common.StatusPending,
		Proof: models.Proof{
			Latitude: 34.0837, Longitude: 74.7973,
			Stored: proof.Snapshot{MatchedPlace: &place, DistanceKm: &dist, WithinRadius: &within},
		},
	}}
	admin := &auth.Claims{UserID: 1, Role: common.RoleAdmin}

	it, err := f.svc.SetStatus(context.Background(), admin, "abc", "Approved", "  looks legit ")
	require.NoError(t, err)
	assert.Equal(t, common.StatusApproved, it.ReviewStatus)
	require.NotNil(t, it.ReviewNote)
	assert.Equal(t, "looks legit", *it.ReviewNote)
	require.NotNil(t, it.ReviewedAt)
	assert.Equal(t, time.UTC, it.ReviewedAt.Location())
	assert.Equal(t, "srinagar", *it.Proof.Verification.MatchedPlace)
	assert.Equal(t, []string{common.StatusApproved}, f.metrics.statuses)

	it, err = f.svc.SetStatus(context.Background(), admin, "abc", "rejected", "   ")
	require.NoError(t, err)
	assert.Equal(t, common.StatusRejected, it.ReviewStatus)
	assert.Nil(t, it.ReviewNote)
}

func TestSetStatus_Errors(t *testing.T) {
	f := newItineraryFixture(t, 10)
	f.repo.rows = []*models.Itinerary{{ID: "abc", ReviewStatus: common.StatusPending}}
	admin := &auth.Claims{UserID: 1, Role: common.RoleAdmin}
	ctx := context.Background()

	_, err := f.svc.SetStatus(ctx, nil, "abc", "approved", "")
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.svc.SetStatus(ctx, &auth.Claims{UserID: 2, Role: common.RoleUser}, "abc", "approved", "")
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.svc.SetStatus(ctx, admin, "abc", "archived", "")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = f.svc.SetStatus(ctx, admin, "abc", "approved", strings.Repeat("n", 501))
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = f.svc.SetStatus(ctx, admin, "nope", "approved", "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Equal(t, common.StatusPending, f.repo.rows[0].ReviewStatus)
	assert.Empty(t, f.metrics.statuses)
}
