package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment,
// loading a .env file first when one exists in the working directory.
//
// Recognized variables:
//
//	INFOKELAS_API_BASE_URL    base URL of the backend
//	INFOKELAS_REQUEST_TIMEOUT per-request timeout, e.g. "15s"
//	INFOKELAS_SESSION_DB      path of the durable session database
func parseEnv(cfg *Config) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	if v := os.Getenv("INFOKELAS_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("INFOKELAS_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("INFOKELAS_SESSION_DB"); v != "" {
		cfg.SessionDBPath = v
	}
}
