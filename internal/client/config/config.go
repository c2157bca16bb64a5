package config

import "time"

// DefaultAPIBaseURL is the hardcoded fallback for the portal backend.
const DefaultAPIBaseURL = "https://admin.infokelas.com/api"

// Config holds runtime settings for the terminal client.
//
// Fields:
//   - APIBaseURL: base URL of the portal REST backend.
//   - RequestTimeout: per-request HTTP timeout.
//   - SessionDBPath: sqlite file backing the durable session tier.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	SessionDBPath  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.RequestTimeout = 15 * time.Second
	c.SessionDBPath = "session.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including a .env file if present), a JSON file
// (if given via -c/-config), and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
