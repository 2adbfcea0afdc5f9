package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/server/auth"
	"github.com/dmitrijs2005/triptales/internal/server/models"
	"github.com/dmitrijs2005/triptales/internal/server/proof"
	"github.com/dmitrijs2005/triptales/internal/server/services"
	"github.com/dmitrijs2005/triptales/internal/server/storage"
)

var (
	userClaims  = &auth.Claims{UserID: 7, Email: "traveler@example.com", FullName: "Asha Rao", Role: common.RoleUser}
	adminClaims = &auth.Claims{UserID: 1, Email: "admin@triptales.local", FullName: "TripTales Admin", Role: common.RoleAdmin}
)

type fakeIdentity struct {
	signupErr error
	loginErr  error
}

func (f *fakeIdentity) Authenticate(token string) (*auth.Claims, error) {
	switch token {
	case "user-token":
		return userClaims, nil
	case "admin-token":
		return adminClaims, nil
	default:
		return nil, common.ErrUnauthenticated
	}
}

func (f *fakeIdentity) result(fullName, email string) *services.AuthResult {
	return &services.AuthResult{
		User:  &models.User{ID: 7, FullName: fullName, Email: email, Role: common.RoleUser},
		Token: "user-token",
	}
}

func (f *fakeIdentity) Signup(_ context.Context, fullName, email, _ string) (*services.AuthResult, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return f.result(fullName, email), nil
}

func (f *fakeIdentity) Login(_ context.Context, email, _ string) (*services.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.result("Asha Rao", email), nil
}

type fakeItineraries struct {
	items map[string]*models.Itinerary

	createErr   error
	lastCreator *auth.Claims
	lastInput   services.CreateItineraryInput
	lastStatus  string
	lastLimit   int
	lastNote    string
	createCalls int
}

func newFakeItineraries() *fakeItineraries {
	return &fakeItineraries{items: map[string]*models.Itinerary{}}
}

func sampleItinerary(id string) *models.Itinerary {
	place, dist := "srinagar", 1.234
	return &models.Itinerary{
		ID:           id,
		Title:        "Kashmir loop",
		Route:        "Srinagar - Gulmarg",
		Duration:     "5 days",
		Budget:       "INR 40,000",
		Highlights:   "Dal lake",
		CreatedAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		ReviewStatus: common.StatusPending,
		Proof: models.Proof{
			Latitude:  34.09,
			Longitude: 74.8,
			PhotoMime: "image/png",
			PhotoSize: 3,
			PhotoPath: storage.PublicPath("abc.png"),
			Verification: proof.Verdict{
				MatchedPlace: &place,
				DistanceKm:   &dist,
				WithinRadius: true,
				Available:    true,
			},
		},
	}
}

func (f *fakeItineraries) Create(_ context.Context, creator *auth.Claims, in services.CreateItineraryInput) (*models.Itinerary, error) {
	f.createCalls++
	f.lastCreator = creator
	f.lastInput = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	it := sampleItinerary("new")
	it.Title = in.Title
	return it, nil
}

func (f *fakeItineraries) Get(_ context.Context, id string) (*models.Itinerary, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return it, nil
}

func (f *fakeItineraries) List(_ context.Context, status string, limit int) (*models.ItineraryPage, error) {
	f.lastStatus = status
	f.lastLimit = limit
	page := &models.ItineraryPage{}
	for _, it := range f.items {
		page.Items = append(page.Items, it)
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

func (f *fakeItineraries) SetStatus(_ context.Context, caller *auth.Claims, id, status, note string) (*models.Itinerary, error) {
	if caller == nil || caller.Role != common.RoleAdmin {
		return nil, common.ErrForbidden
	}
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	f.lastNote = note
	it.ReviewStatus = status
	return it, nil
}

func (f *fakeItineraries) RadiusKm() float64 { return 5 }

type fakeReviews struct {
	rows    []*models.Review
	lastKey string
}

func (f *fakeReviews) Create(_ context.Context, in services.CreateReviewInput) (*models.Review, error) {
	if in.Text == "" {
		return nil, common.ErrInvalidArgument
	}
	r := &models.Review{ID: int64(len(f.rows) + 1), ItineraryKey: in.ItineraryKey, AuthorName: in.AuthorName, Text: in.Text, Rating: 5}
	if in.Rating != nil {
		r.Rating = *in.Rating
	}
	f.rows = append(f.rows, r)
	return r, nil
}

func (f *fakeReviews) List(_ context.Context, key string) ([]*models.Review, error) {
	f.lastKey = key
	return f.rows, nil
}

type urlPhotoStore struct{}

func (urlPhotoStore) Put(context.Context, string, string, []byte) (string, error) { return "", nil }
func (urlPhotoStore) Delete(context.Context, string) error                       { return nil }
func (urlPhotoStore) Locate(_ context.Context, name string) (storage.Location, error) {
	return storage.Location{URL: "https://bucket.example.com/itinerary-proofs/" + name}, nil
}
