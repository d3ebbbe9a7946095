// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the kasku client.
//
// Fields:
//   - ServerURL: base URL of the sync server.
//   - DatabaseDSN: path of the on-device SQLite database.
//   - RequestTimeout: per-request timeout for push/pull calls.
type Config struct {
	ServerURL      string
	DatabaseDSN    string
	RequestTimeout time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.DatabaseDSN = "kasku.db"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
