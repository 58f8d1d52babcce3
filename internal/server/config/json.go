package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/scuttlebutt/internal/flagx"
	"github.com/dmitrijs2005/scuttlebutt/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer fields
// distinguish "absent" from a zero value so a file may set only some keys.
type JsonConfig struct {
	EndpointAddr   string          `json:"endpoint_addr"`
	DatabaseDSN    string          `json:"database_dsn"`
	TokenTTL       *timex.Duration `json:"token_ttl"`
	NodeID         *int64          `json:"node_id"`
	LogLevel       string          `json:"log_level"`
	MetricsEnabled *bool           `json:"metrics_enabled"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $SCUTTLEBUTT_CONFIG). Without a path nothing is loaded. An unreadable or
// invalid file panics, like a bad flag.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.NodeID != nil {
		config.NodeID = *c.NodeID
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.MetricsEnabled != nil {
		config.MetricsEnabled = *c.MetricsEnabled
	}
}
