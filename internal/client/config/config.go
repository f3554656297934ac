// Package config loads runtime settings for the Arogya client from
// defaults, an optional JSON file, and command-line flags, in that order
// of precedence.
package config

import "time"

// Config holds runtime settings for the client.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API, including the
//     version prefix (e.g. "https://api.example.org/api/v1").
//   - DatabasePath: path of the local SQLite file.
//   - OnlineCheckInterval: how often the client probes backend
//     reachability.
//   - EventQueueCap: how many event creations may wait in the offline
//     queue before new ones are rejected.
type Config struct {
	APIBaseURL          string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	EventQueueCap       int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api/v1"
	c.DatabasePath = "arogya.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.EventQueueCap = 5
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
