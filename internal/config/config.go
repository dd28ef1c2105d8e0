package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prefix is the environment prefix, e.g. COFI_BASE_URL.
const Prefix = "COFI"

// DevSecret signs stub backend tokens when COFI_DEV_SECRET is unset.
// It is intentionally obvious and must never reach a real deployment.
const DevSecret = "LOCAL_DEV_MODE_NOT_FOR_PRODUCTION"

// Config holds the settings shared by the cofi binaries.
// Environment variables are parsed with the COFI_ prefix.
type Config struct {
	// API client
	BaseURL               string        `envconfig:"BASE_URL" default:"http://localhost:3000/api/v1"`
	Timeout               time.Duration `envconfig:"TIMEOUT" default:"30s"`
	RegisterDeviceTimeout time.Duration `envconfig:"REGISTER_DEVICE_TIMEOUT" default:"50s"`
	AuthScheme            string        `envconfig:"AUTH_SCHEME" default:""`

	// Token storage; empty path keeps the token in memory.
	TokenStore string `envconfig:"TOKEN_STORE" default:""`
	TokenKey   string `envconfig:"TOKEN_KEY" default:"token"`

	Debug    bool   `envconfig:"DEBUG" default:"false"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Stub backend
	DevAddr     string        `envconfig:"DEV_ADDR" default:":3000"`
	DevSecret   string        `envconfig:"DEV_SECRET" default:"LOCAL_DEV_MODE_NOT_FOR_PRODUCTION"`
	DevTokenTTL time.Duration `envconfig:"DEV_TOKEN_TTL" default:"1h"`
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid BASE_URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid BASE_URL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid BASE_URL %q: missing host", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.RegisterDeviceTimeout <= 0 {
		return fmt.Errorf("REGISTER_DEVICE_TIMEOUT must be positive, got %s", c.RegisterDeviceTimeout)
	}
	if c.DevTokenTTL <= 0 {
		return fmt.Errorf("DEV_TOKEN_TTL must be positive, got %s", c.DevTokenTTL)
	}
	if c.TokenKey == "" {
		return fmt.Errorf("TOKEN_KEY must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unsupported LOG_LEVEL: %s", c.LogLevel)
	}
}

// New creates a Config from the environment.
// Example: COFI_BASE_URL, COFI_TIMEOUT, COFI_TOKEN_STORE
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("base_url", cfg.BaseURL).
		Dur("timeout", cfg.Timeout).
		Dur("register_device_timeout", cfg.RegisterDeviceTimeout).
		Str("token_store", cfg.TokenStore).
		Bool("auth_scheme_set", cfg.AuthScheme != "").
		Bool("debug", cfg.Debug).
		Str("log_level", cfg.LogLevel).
		Str("dev_addr", cfg.DevAddr).
		Bool("dev_secret_default", cfg.DevSecret == DevSecret).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a valid config pointing at baseURL without reading
// the environment.
func NewForTesting(baseURL string) *Config {
	return &Config{
		BaseURL:               baseURL,
		Timeout:               30 * time.Second,
		RegisterDeviceTimeout: 50 * time.Second,
		TokenKey:              "token",
		LogLevel:              "info",
		DevAddr:               ":0",
		DevSecret:             DevSecret,
		DevTokenTTL:           time.Hour,
	}
}
