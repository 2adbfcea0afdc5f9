package client

import "time"

type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Photo struct {
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
	URL       string `json:"url"`
}

type Verification struct {
	Available         bool     `json:"available"`
	MatchedRoutePoint *string  `json:"matchedRoutePoint"`
	DistanceKm        *float64 `json:"distanceKm"`
	Within5km         bool     `json:"within5km"`
	RadiusKm          float64  `json:"radiusKm"`
}

type Proof struct {
	Location     Location     `json:"location"`
	Photo        Photo        `json:"photo"`
	Verification Verification `json:"verification"`
}

type Itinerary struct {
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
	Proof        Proof      `json:"proof"`
}

type ItineraryPage struct {
	Total int64       `json:"total"`
	Items []Itinerary `json:"items"`
}
