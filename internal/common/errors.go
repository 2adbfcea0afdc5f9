// Package common defines shared constants, sentinel errors and small helpers
// used across TripTales server and client layers. Callers should use
// errors.Is to match these values; detailed messages wrap them with %w.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrInternal           = errors.New("internal error")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("admin access required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPayloadTooLarge    = errors.New("payload too large")
	ErrRateLimited        = errors.New("too many requests")

	// Session token errors.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidPayload   = errors.New("invalid token payload")
	ErrTokenExpired     = errors.New("token expired")
)
