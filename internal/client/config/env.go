package config

import (
	"os"
	"time"
)

// parseEnv overlays configuration values from environment variables.
// A malformed duration is ignored in favour of the current value.
func parseEnv(cfg *Config) {
	if v := os.Getenv("GOALKEEPER_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("GOALKEEPER_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
