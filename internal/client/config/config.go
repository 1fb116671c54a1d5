// Package config loads runtime settings for the PropKeeper client.
// Sources are applied in order: defaults, JSON file, environment, flags —
// later sources take precedence.
package config

import "time"

// Config holds runtime settings for the PropKeeper client.
type Config struct {
	// BackendAddr is the base URL of the backend API.
	BackendAddr string

	// GeocoderAddr is the base URL of the Nominatim-compatible geocoder.
	GeocoderAddr string

	// DatabaseDSN locates the local SQLite database.
	DatabaseDSN string

	// HTTPTimeout bounds a single backend round-trip.
	HTTPTimeout time.Duration

	// BridgeTimeout bounds operations that wait on an external callback or
	// lookup (geocoding, permission prompts).
	BridgeTimeout time.Duration

	// CapabilityThrottle is the minimum interval between two effective
	// capability polls.
	CapabilityThrottle time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendAddr = "http://127.0.0.1:8080/v1"
	c.GeocoderAddr = "https://nominatim.openstreetmap.org"
	c.DatabaseDSN = "propkeeper.db"
	c.HTTPTimeout = 10 * time.Second
	c.BridgeTimeout = 30 * time.Second
	c.CapabilityThrottle = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
