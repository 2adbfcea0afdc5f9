package httpapi

import (
	"time"

	"github.com/dmitrijs2005/triptales/internal/server/auth"
	"github.com/dmitrijs2005/triptales/internal/server/models"
)

type userView struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func newUserView(u *models.User) userView {
	return userView{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}

func claimsUserView(c *auth.Claims) userView {
	return userView{ID: c.UserID, FullName: c.FullName, Email: c.Email, Role: c.Role}
}

type locationView struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type photoView struct {
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
	URL       string `json:"url"`
}

type verificationView struct {
	Available         bool     `json:"available"`
	MatchedRoutePoint *string  `json:"matchedRoutePoint"`
	DistanceKm        *float64 `json:"distanceKm"`
	Within5km         bool     `json:"within5km"`
	RadiusKm          float64  `json:"radiusKm"`
}

type proofView struct {
	Location     locationView     `json:"location"`
	Photo        photoView        `json:"photo"`
	Verification verificationView `json:"verification"`
}

type itineraryView struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Route        string     `json:"route"`
	Duration     string     `json:"duration"`
	Budget       string     `json:"budget"`
	Highlights   string     `json:"highlights"`
	ReviewStatus string     `json:"reviewStatus"`
	CreatedAt    time.Time  `json:"createdAt"`
	ReviewedAt   *time.Time `json:"reviewedAt"`
	ReviewNote   *string    `json:"reviewNote"`
	Proof        proofView  `json:"proof"`
}

func newItineraryView(it *models.Itinerary, radiusKm float64) itineraryView {
	v := it.Proof.Verification
	return itineraryView{
		ID:           it.ID,
		Title:        it.Title,
		Route:        it.Route,
		Duration:     it.Duration,
		Budget:       it.Budget,
		Highlights:   it.Highlights,
		ReviewStatus: it.ReviewStatus,
		CreatedAt:    it.CreatedAt,
		ReviewedAt:   it.ReviewedAt,
		ReviewNote:   it.ReviewNote,
		Proof: proofView{
			Location: locationView{Latitude: it.Proof.Latitude, Longitude: it.Proof.Longitude},
			Photo: photoView{
				MimeType:  it.Proof.PhotoMime,
				SizeBytes: it.Proof.PhotoSize,
				URL:       it.Proof.PhotoPath,
			},
			Verification: verificationView{
				Available:         v.Available,
				MatchedRoutePoint: v.MatchedPlace,
				DistanceKm:        v.DistanceKm,
				Within5km:         v.WithinRadius,
				RadiusKm:          radiusKm,
			},
		},
	}
}

type reviewView struct {
	ID           int64     `json:"id"`
	ItineraryKey string    `json:"itineraryKey"`
	AuthorName   string    `json:"authorName"`
	ReviewText   string    `json:"reviewText"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newReviewView(r *models.Review) reviewView {
	return reviewView{
		ID:           r.ID,
		ItineraryKey: r.ItineraryKey,
		AuthorName:   r.AuthorName,
		ReviewText:   r.Text,
		Rating:       r.Rating,
		CreatedAt:    r.CreatedAt,
	}
}
