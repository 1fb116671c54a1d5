package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkhrunov/propkeeper/internal/flagx"
	"github.com/dkhrunov/propkeeper/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s" or
// as integer nanoseconds.
type jsonConfig struct {
	BackendAddr        *string         `json:"backend_addr"`
	GeocoderAddr       *string         `json:"geocoder_addr"`
	DatabaseDSN        *string         `json:"database_dsn"`
	HTTPTimeout        *timex.Duration `json:"http_timeout"`
	BridgeTimeout      *timex.Duration `json:"bridge_timeout"`
	CapabilityThrottle *timex.Duration `json:"capability_throttle"`
}

// parseJSON overlays Config with values loaded from the JSON file given via
// the -c or -config flags. Absent file means no overlay; read or unmarshal
// errors panic, as a broken explicit config should not be silently ignored.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BackendAddr != nil {
		cfg.BackendAddr = *jc.BackendAddr
	}
	if jc.GeocoderAddr != nil {
		cfg.GeocoderAddr = *jc.GeocoderAddr
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.HTTPTimeout != nil {
		cfg.HTTPTimeout = time.Duration(jc.HTTPTimeout.Duration)
	}
	if jc.BridgeTimeout != nil {
		cfg.BridgeTimeout = time.Duration(jc.BridgeTimeout.Duration)
	}
	if jc.CapabilityThrottle != nil {
		cfg.CapabilityThrottle = time.Duration(jc.CapabilityThrottle.Duration)
	}
}
