package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/kasku-app/kasku/internal/flagx"
	"github.com/kasku-app/kasku/internal/timex"
)

// JsonConfig is the JSON-file DTO for client settings. It uses
// timex.Duration for interval fields, which parses both string values such
// as "30s" and integer nanoseconds. Values are copied into the runtime
// Config after unmarshalling.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	DatabaseDSN    string         `json:"database_dsn"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any. Missing file flag means nothing is loaded;
// an unreadable or invalid file panics, as misconfiguration should stop
// startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerURL != "" {
		config.ServerURL = c.ServerURL
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	}
}
