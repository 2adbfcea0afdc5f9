package models

import "time"

// Review is a traveler comment. ItineraryKey is free text and is not checked
// against existing itineraries.
type Review struct {
	ID           int64
	ItineraryKey string
	AuthorName   string
	Text         string
	Rating       float64
	CreatedAt    time.Time
}
