// Package client is the HTTP client the admin CLI uses to talk to the
// TripTales API.
//
// Client covers the moderation workflow: Ping, Login, ListItineraries,
// GetItinerary and SetStatus. Failures are mapped to sentinel errors that
// callers match with errors.Is: ErrUnavailable for transport problems and
// gateway errors, ErrUnauthorized and ErrForbidden for 401/403, and
// common.ErrNotFound, common.ErrInvalidArgument and common.ErrRateLimited for
// the matching API statuses.
//
// A Client is safe for concurrent use. All operations take a context.Context
// and honor cancellation on top of the configured request timeout.
package client
