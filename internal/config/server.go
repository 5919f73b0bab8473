// Package config loads the page-hits server configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file named by CONFIG_FILE, and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	envcfg "page-hits/pkg/config"
)

// Default values.
const (
	DefaultAddr                = "0.0.0.0:5000"
	DefaultReadHeaderTimeout   = 10 * time.Second
	DefaultShutdownTimeout     = 5 * time.Second
	DefaultMaxBodyBytes        = 1 << 20
	DefaultPageLabelLimit      = 1000
	DefaultWriteRateLimitBurst = 10
	DefaultVersion             = "dev"
)

// Environment variable names.
const (
	EnvConfigFile          = "CONFIG_FILE"
	EnvAddr                = "HTTP_ADDR"
	EnvReadHeaderTimeout   = "HTTP_READ_HEADER_TIMEOUT"
	EnvShutdownTimeout     = "HTTP_SHUTDOWN_TIMEOUT"
	EnvMaxBodyBytes        = "MAX_BODY_BYTES"
	EnvPageLabelLimit      = "PAGE_LABEL_LIMIT"
	EnvWriteRateLimitRPS   = "WRITE_RATE_LIMIT_RPS"
	EnvWriteRateLimitBurst = "WRITE_RATE_LIMIT_BURST"
	EnvTrustedProxies      = "TRUSTED_PROXIES"
	EnvVersion             = "VERSION"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// ServerConfig holds everything cmd/api needs to start the service.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	PageLabelLimit    int           `yaml:"page_label_limit"`

	// WriteRateLimitRPS is the per-client rate on mutating routes; 0 disables it.
	WriteRateLimitRPS   float64 `yaml:"write_rate_limit_rps"`
	WriteRateLimitBurst int     `yaml:"write_rate_limit_burst"`

	// TrustedProxies lists the reverse proxies (IPs or CIDRs) whose
	// X-Forwarded-For / X-Real-IP headers identify the client. Empty means
	// the TCP peer address is always used.
	TrustedProxies []string `yaml:"trusted_proxies"`

	Version string `yaml:"version"`
}

// Default returns the built-in configuration.
func Default() ServerConfig {
	return ServerConfig{
		Addr:                DefaultAddr,
		ReadHeaderTimeout:   DefaultReadHeaderTimeout,
		ShutdownTimeout:     DefaultShutdownTimeout,
		MaxBodyBytes:        DefaultMaxBodyBytes,
		PageLabelLimit:      DefaultPageLabelLimit,
		WriteRateLimitBurst: DefaultWriteRateLimitBurst,
		Version:             DefaultVersion,
	}
}

// Load resolves defaults, then CONFIG_FILE (if set), then environment
// overrides, and validates the result.
func Load() (ServerConfig, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return ServerConfig{}, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML file at path. Keys absent from the file keep
// their current values.
func (c *ServerConfig) mergeFile(path string) error {
	// #nosec G304 -- path comes from the operator-controlled CONFIG_FILE variable
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *ServerConfig) applyEnv() {
	c.Addr = envcfg.GetEnvString(EnvAddr, c.Addr)
	c.ReadHeaderTimeout = envcfg.GetEnvDuration(EnvReadHeaderTimeout, c.ReadHeaderTimeout)
	c.ShutdownTimeout = envcfg.GetEnvDuration(EnvShutdownTimeout, c.ShutdownTimeout)
	c.MaxBodyBytes = envcfg.GetEnvInt64(EnvMaxBodyBytes, c.MaxBodyBytes)
	c.PageLabelLimit = envcfg.GetEnvInt(EnvPageLabelLimit, c.PageLabelLimit)
	c.WriteRateLimitRPS = envcfg.GetEnvFloat(EnvWriteRateLimitRPS, c.WriteRateLimitRPS)
	c.WriteRateLimitBurst = envcfg.GetEnvInt(EnvWriteRateLimitBurst, c.WriteRateLimitBurst)
	c.TrustedProxies = envcfg.GetEnvStringList(EnvTrustedProxies, c.TrustedProxies)
	c.Version = envcfg.GetEnvString(EnvVersion, c.Version)
}

// Validate checks the configuration for values the server cannot run with.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is required", ErrInvalidConfig)
	}
	if err := envcfg.ValidatePositiveDuration(c.ReadHeaderTimeout); err != nil {
		return fmt.Errorf("%w: read_header_timeout: %v", ErrInvalidConfig, err)
	}
	if err := envcfg.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("%w: shutdown_timeout: %v", ErrInvalidConfig, err)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive, got %d", ErrInvalidConfig, c.MaxBodyBytes)
	}
	if c.PageLabelLimit <= 0 {
		return fmt.Errorf("%w: page_label_limit must be positive, got %d", ErrInvalidConfig, c.PageLabelLimit)
	}
	if c.WriteRateLimitRPS < 0 {
		return fmt.Errorf("%w: write_rate_limit_rps must not be negative, got %g", ErrInvalidConfig, c.WriteRateLimitRPS)
	}
	if c.WriteRateLimitRPS > 0 && c.WriteRateLimitBurst <= 0 {
		return fmt.Errorf("%w: write_rate_limit_burst must be positive when the rate limit is enabled", ErrInvalidConfig)
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return fmt.Errorf("%w: trusted_proxies: %v", ErrInvalidConfig, err)
	}
	return nil
}

// TrustedProxyPrefixes parses TrustedProxies.
func (c ServerConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	return envcfg.ParsePrefixes(c.TrustedProxies)
}
