package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/triptales/internal/flagx"
	"github.com/dmitrijs2005/triptales/internal/timex"
)

// JsonConfig mirrors Config for JSON decoding. Pointer fields distinguish
// "absent" from zero values so a partial file only overrides what it names.
type JsonConfig struct {
	HTTPAddr         *string         `json:"http_addr"`
	GRPCAddr         *string         `json:"grpc_addr"`
	DatabaseDSN      *string         `json:"database_dsn"`
	SecretKey        *string         `json:"secret_key"`
	TokenTTL         *timex.Duration `json:"token_ttl"`
	MaxImageBytes    *int64          `json:"max_image_bytes"`
	MaxItineraries   *int64          `json:"max_itineraries"`
	ProofRadiusKm    *float64        `json:"proof_radius_km"`
	AdminEmail       *string         `json:"admin_email"`
	AdminPassword    *string         `json:"admin_password"`
	GoogleMapsAPIKey *string         `json:"google_maps_api_key"`
	LogLevel         *string         `json:"log_level"`
	LoginRatePerMin  *int64          `json:"login_rate_per_minute"`
	PhotoStorage     *string         `json:"photo_storage"`
	UploadDir        *string         `json:"upload_dir"`
	S3RootUser       *string         `json:"s3_root_user"`
	S3RootPassword   *string         `json:"s3_root_password"`
	S3Bucket         *string         `json:"s3_bucket"`
	S3Region         *string         `json:"s3_region"`
	S3BaseEndpoint   *string         `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// Unreadable files and invalid JSON panic.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.MaxImageBytes != nil {
		config.MaxImageBytes = *c.MaxImageBytes
	}
	if c.MaxItineraries != nil {
		config.MaxItineraries = *c.MaxItineraries
	}
	if c.ProofRadiusKm != nil {
		config.ProofRadiusKm = *c.ProofRadiusKm
	}
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.GoogleMapsAPIKey, c.GoogleMapsAPIKey)
	setString(&config.LogLevel, c.LogLevel)
	if c.LoginRatePerMin != nil {
		config.LoginRatePerMin = *c.LoginRatePerMin
	}
	setString(&config.PhotoStorage, c.PhotoStorage)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
