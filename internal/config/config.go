// Package config provides centralized configuration management for the client.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Calypso  CalypsoConfig
	Upload   UploadConfig
	Export   ExportConfig
	Notify   NotifyConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds settings for the local web shell.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request body (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout is the maximum duration for writing a response (default: 0, uploads can be slow)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 0, disabled)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"0s"`
}

// CalypsoConfig holds settings for the extraction service.
type CalypsoConfig struct {
	// BaseURL is the extraction service root (default: http://localhost:5000)
	BaseURL string `env:"CALYPSO_BASE_URL" envAlt:"CALYPSO_URL" default:"http://localhost:5000"`

	// RequestTimeout bounds each request to the service (default: 0, no timeout)
	RequestTimeout time.Duration `env:"CALYPSO_REQUEST_TIMEOUT" default:"0s"`
}

// UploadConfig holds file selection settings.
type UploadConfig struct {
	// MaxBatchBytes is the largest batch accepted for upload (default: 16MB,
	// the service's request size cap)
	MaxBatchBytes int64 `env:"UPLOAD_MAX_BATCH_BYTES" default:"16777216"`
}

// ExportConfig holds CSV download settings.
type ExportConfig struct {
	// DownloadDir is where CLI downloads are written (default: current directory)
	DownloadDir string `env:"EXPORT_DOWNLOAD_DIR" default:"."`

	// IncludeStats requests the statistics section by default (default: false)
	IncludeStats bool `env:"EXPORT_INCLUDE_STATS" default:"false"`
}

// NotifyConfig holds notification settings.
type NotifyConfig struct {
	// TimeUnit is the length of one fade unit; errors fade after 5 units and
	// successes after 10 (default: 1s)
	TimeUnit time.Duration `env:"NOTIFY_TIME_UNIT" default:"1s"`
}

// RateLimitConfig holds rate limiting settings for the web shell.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey enables X-API-Key checks on state-changing routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
