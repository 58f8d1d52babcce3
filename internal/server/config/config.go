// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/dmitrijs2005/scuttlebutt/internal/server/repositories/repomanager"
)

// Config holds runtime settings for the Scuttlebutt API server.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx), or "memory" for the in-process store.
//   - TokenTTL: lifetime of bearer tokens issued by login.
//   - NodeID: id generator node, 0..1023; must differ between replicas.
//   - LogLevel: debug, info, warn or error.
//   - MetricsEnabled: serve Prometheus metrics on /metrics.
//
// The token signing secret is not configurable: it is generated at startup
// and never leaves the process.
type Config struct {
	EndpointAddr   string
	DatabaseDSN    string
	TokenTTL       time.Duration
	NodeID         int64
	LogLevel       string
	MetricsEnabled bool
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = "127.0.0.1:3000"
	c.DatabaseDSN = repomanager.MemoryDSN
	c.TokenTTL = 24 * time.Hour
	c.NodeID = 0
	c.LogLevel = "info"
	c.MetricsEnabled = true
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
