package common

// Review states of an itinerary.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User roles carried in session claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AuthorizationHeader carries "Bearer <token>" on API requests.
const AuthorizationHeader = "Authorization"
