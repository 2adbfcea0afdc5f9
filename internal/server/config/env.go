package config

import (
	"time"

	"github.com/dmitrijs2005/triptales/internal/flagx"
)

// parseEnv overlays the variables the original deployment used.
// AUTH_TOKEN_TTL_SECONDS is in seconds; sizes are in bytes.
func parseEnv(c *Config) error {
	flagx.EnvString(&c.HTTPAddr, "HTTP_ADDR")
	flagx.EnvString(&c.GRPCAddr, "GRPC_ADDR")
	flagx.EnvString(&c.DatabaseDSN, "DATABASE_DSN")
	flagx.EnvString(&c.SecretKey, "AUTH_SECRET")
	flagx.EnvString(&c.AdminEmail, "ADMIN_EMAIL")
	flagx.EnvString(&c.AdminPassword, "ADMIN_PASSWORD")
	flagx.EnvString(&c.GoogleMapsAPIKey, "GOOGLE_MAPS_API_KEY")
	flagx.EnvString(&c.LogLevel, "LOG_LEVEL")
	flagx.EnvString(&c.PhotoStorage, "PHOTO_STORAGE")
	flagx.EnvString(&c.UploadDir, "UPLOAD_DIR")
	flagx.EnvString(&c.S3RootUser, "S3_ACCESS_KEY")
	flagx.EnvString(&c.S3RootPassword, "S3_SECRET_KEY")
	flagx.EnvString(&c.S3Bucket, "S3_BUCKET")
	flagx.EnvString(&c.S3Region, "S3_REGION")
	flagx.EnvString(&c.S3BaseEndpoint, "S3_ENDPOINT")

	ttlSeconds := int64(c.TokenTTL / time.Second)
	if err := flagx.EnvInt64(&ttlSeconds, "AUTH_TOKEN_TTL_SECONDS"); err != nil {
		return err
	}
	c.TokenTTL = time.Duration(ttlSeconds) * time.Second

	if err := flagx.EnvInt64(&c.MaxImageBytes, "MAX_ITINERARY_IMAGE_BYTES"); err != nil {
		return err
	}
	if err := flagx.EnvInt64(&c.MaxItineraries, "MAX_ITINERARY_ITEMS"); err != nil {
		return err
	}
	return flagx.EnvInt64(&c.LoginRatePerMin, "LOGIN_RATE_PER_MINUTE")
}
