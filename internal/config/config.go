package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/appvector-mcp/internal/common"
)

// Route profiles select between the two upstream path conventions.
const (
	RoutesExternal = "external"
	RoutesKeyword  = "keyword"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig         `toml:"server"`
	Upstream  UpstreamConfig       `toml:"upstream"`
	Logging   common.LoggingConfig `toml:"logging"`
	Telemetry TelemetryConfig      `toml:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// UpstreamConfig describes the AppVector API the tools forward to.
type UpstreamConfig struct {
	BaseURL string `toml:"base_url"`
	// Routes names the path convention profile ("external" or "keyword").
	Routes  string `toml:"routes"`
	Timeout string `toml:"timeout"`
	// Paths overrides individual tool paths, keyed by tool name.
	Paths map[string]string `toml:"paths"`
}

// GetTimeout parses the optional upstream timeout. Zero (unset or
// unparseable) leaves the HTTP transport defaults in charge.
func (c *UpstreamConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled     bool   `toml:"enabled"`
	Stdout      bool   `toml:"stdout"`
	ServiceName string `toml:"service_name"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	applyEnvOverrides(config)

	return config, nil
}

// loadDotEnv populates unset environment variables from a dotenv file.
// A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// applyEnvOverrides applies APPVECTOR_* environment variable overrides to config.
// PORT and LOG_LEVEL are honoured for compatibility with container platforms.
func applyEnvOverrides(config *Config) {
	for _, key := range []string{"PORT", "APPVECTOR_PORT"} {
		if port := os.Getenv(key); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				config.Server.Port = p
			}
		}
	}
	if host := os.Getenv("APPVECTOR_HOST"); host != "" {
		config.Server.Host = host
	}
	if apiURL := os.Getenv("APPVECTOR_API_URL"); apiURL != "" {
		config.Upstream.BaseURL = apiURL
	}
	if routes := os.Getenv("APPVECTOR_ROUTES"); routes != "" {
		config.Upstream.Routes = routes
	}
	if timeout := os.Getenv("APPVECTOR_UPSTREAM_TIMEOUT"); timeout != "" {
		config.Upstream.Timeout = timeout
	}
	for _, key := range []string{"LOG_LEVEL", "APPVECTOR_LOG_LEVEL"} {
		if level := os.Getenv(key); level != "" {
			config.Logging.Level = level
		}
	}
	if format := os.Getenv("APPVECTOR_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if telemetry := os.Getenv("APPVECTOR_TELEMETRY"); telemetry != "" {
		// stdout is the only exporter, so enabling from the environment turns it on too.
		if enabled, err := strconv.ParseBool(telemetry); err == nil {
			config.Telemetry.Enabled = enabled
			config.Telemetry.Stdout = config.Telemetry.Stdout || enabled
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate reports every mandatory field that is missing or malformed.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}

	base := strings.TrimSpace(c.Upstream.BaseURL)
	if base == "" {
		issues = append(issues, "upstream.base_url is required (APPVECTOR_API_URL)")
	} else if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("upstream.base_url %q is not an absolute URL", base))
	}

	switch c.Upstream.Routes {
	case RoutesExternal, RoutesKeyword:
	default:
		issues = append(issues, fmt.Sprintf("upstream.routes must be %q or %q (got %q)", RoutesExternal, RoutesKeyword, c.Upstream.Routes))
	}

	if c.Upstream.Timeout != "" {
		if d, err := time.ParseDuration(c.Upstream.Timeout); err != nil || d < 0 {
			issues = append(issues, fmt.Sprintf("upstream.timeout %q is not a valid duration", c.Upstream.Timeout))
		}
	}

	for name, path := range c.Upstream.Paths {
		if !strings.HasPrefix(path, "/") {
			issues = append(issues, fmt.Sprintf("upstream.paths.%s must start with / (got %q)", name, path))
		}
	}

	switch c.Logging.Format {
	case "", common.LogFormatText, common.LogFormatJSON:
	default:
		issues = append(issues, fmt.Sprintf("logging.format must be %q or %q (got %q)", common.LogFormatText, common.LogFormatJSON, c.Logging.Format))
	}

	// Spans need somewhere to go; stdout is the only exporter.
	if c.Telemetry.Enabled && !c.Telemetry.Stdout {
		issues = append(issues, "telemetry.enabled requires telemetry.stdout (no other exporter is configured)")
	}

	return issues
}

// Address returns the host:port listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
