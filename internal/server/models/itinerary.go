package models

import (
	"time"

	"github.com/dmitrijs2005/triptales/internal/server/proof"
)

// Itinerary is a user-submitted trip plan together with its proof of visit.
type Itinerary struct {
	ID         string
	Title      string
	Route      string
	Duration   string
	Budget     string
	Highlights string
	// CreatedBy is nil for anonymous submissions.
	CreatedBy *int64
	CreatedAt time.Time

	ReviewStatus string
	ReviewedAt   *time.Time
	ReviewNote   *string

	Proof Proof
}

// Proof is the GPS reading and photo attached to an itinerary.
type Proof struct {
	Latitude  float64
	Longitude float64

	PhotoMime string
	PhotoSize int64
	PhotoPath string

	// Stored holds the verdict columns exactly as persisted.
	Stored proof.Snapshot
	// Verification is filled on read from Stored, or recomputed for rows
	// that predate the verdict columns.
	Verification proof.Verdict
}

// ItineraryPage is one page of a filtered listing plus the total match count.
type ItineraryPage struct {
	Total int64
	Items []*Itinerary
}
