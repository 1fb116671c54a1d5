package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment parsing. Pointer fields
// distinguish "unset" from an explicit zero.
type envConfig struct {
	BackendAddr        *string        `env:"PROPKEEPER_BACKEND_ADDR"`
	GeocoderAddr       *string        `env:"PROPKEEPER_GEOCODER_ADDR"`
	DatabaseDSN        *string        `env:"PROPKEEPER_DATABASE_DSN"`
	HTTPTimeout        *time.Duration `env:"PROPKEEPER_HTTP_TIMEOUT"`
	BridgeTimeout      *time.Duration `env:"PROPKEEPER_BRIDGE_TIMEOUT"`
	CapabilityThrottle *time.Duration `env:"PROPKEEPER_CAPABILITY_THROTTLE"`
}

// parseEnv overlays Config with values from the environment.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.BackendAddr != nil {
		cfg.BackendAddr = *ec.BackendAddr
	}
	if ec.GeocoderAddr != nil {
		cfg.GeocoderAddr = *ec.GeocoderAddr
	}
	if ec.DatabaseDSN != nil {
		cfg.DatabaseDSN = *ec.DatabaseDSN
	}
	if ec.HTTPTimeout != nil {
		cfg.HTTPTimeout = *ec.HTTPTimeout
	}
	if ec.BridgeTimeout != nil {
		cfg.BridgeTimeout = *ec.BridgeTimeout
	}
	if ec.CapabilityThrottle != nil {
		cfg.CapabilityThrottle = *ec.CapabilityThrottle
	}
}
