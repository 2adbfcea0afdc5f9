// Package storage keeps itinerary proof photos on the local filesystem or in
// an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/server/config"
)

// PublicPrefix is the URL path under which stored photos are served.
const PublicPrefix = "/uploads/itinerary-proofs/"

// Location tells the HTTP layer how to serve a photo: from a local file or by
// redirecting to a URL.
type Location struct {
	FilePath string
	URL      string
}

type PhotoStore interface {
	// Put stores data under name and returns its public path.
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
	Locate(ctx context.Context, name string) (Location, error)
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+\.(jpg|png|webp)$`)

// ValidName rejects anything that is not a flat photo file name.
func ValidName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: bad photo name %q", common.ErrInvalidArgument, name)
	}
	return nil
}

// PublicPath returns the URL path of a stored photo.
func PublicPath(name string) string {
	return PublicPrefix + name
}

// New builds the store selected by cfg.PhotoStorage.
func New(ctx context.Context, cfg *config.Config) (PhotoStore, error) {
	switch cfg.PhotoStorage {
	case config.StorageLocal:
		return NewLocalStore(cfg.UploadDir)
	case config.StorageS3:
		return NewS3Store(ctx, S3Options{
			Region:    cfg.S3Region,
			AccessKey: cfg.S3RootUser,
			SecretKey: cfg.S3RootPassword,
			Endpoint:  cfg.S3BaseEndpoint,
			Bucket:    cfg.S3Bucket,
		})
	default:
		return nil, fmt.Errorf("unknown photo storage %q", cfg.PhotoStorage)
	}
}
