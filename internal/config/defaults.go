package config

import "github.com/bobmcallan/appvector-mcp/internal/common"

// DefaultAPIURL is the public AppVector external API.
const DefaultAPIURL = "https://appvector.io/external-apis/api"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8000,
			Host: "0.0.0.0",
		},
		Upstream: UpstreamConfig{
			BaseURL: DefaultAPIURL,
			Routes:  RoutesExternal,
			Paths:   map[string]string{},
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Format:  "text",
			Outputs: []string{"console"},
		},
		Telemetry: TelemetryConfig{
			ServiceName: "appvector-mcp",
		},
	}
}
