package config

import (
	"time"

	"github.com/dmitrijs2005/triptales/internal/flagx"
)

// EnvServerURL overrides the default server URL.
const EnvServerURL = "TRIPTALES_SERVER_URL"

// Config holds runtime settings for the TripTales admin CLI.
//
// Fields:
//   - ServerURL: base URL of the TripTales JSON API.
//   - RequestTimeout: per-request HTTP timeout.
//   - OnlineCheckInterval: how often the client probes server reachability.
type Config struct {
	ServerURL           string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	flagx.EnvString(&cfg.ServerURL, EnvServerURL)
	parseFlags(cfg)
	return cfg
}
