package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBridge(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateColor(); err != nil {
		return err
	}
	if err := c.validateRateLimit(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	if c.Paths.AuthFile == "" {
		return errors.New("paths.auth_file must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q must be host:port: %w", c.Paths.APIBind, err)
	}
	return nil
}

func (c *Config) validateBridge() error {
	switch c.Bridge.Readiness {
	case ReadinessEvent, ReadinessPoll:
	default:
		return fmt.Errorf("bridge.readiness must be %q or %q, got %q", ReadinessEvent, ReadinessPoll, c.Bridge.Readiness)
	}
	if c.Bridge.ReadyTimeoutMS < 0 {
		return errors.New("bridge.ready_timeout_ms must be positive")
	}
	if c.Bridge.PollIntervalMS < 0 {
		return errors.New("bridge.poll_interval_ms must be positive")
	}
	if c.Bridge.PollIntervalMS > c.Bridge.ReadyTimeoutMS {
		return errors.New("bridge.poll_interval_ms must not exceed bridge.ready_timeout_ms")
	}
	if c.Cache.PlaylistTTLMinutes < 0 {
		return errors.New("cache.playlist_ttl_minutes must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	parsed, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("catalog.base_url %q must be an absolute URL", c.Catalog.BaseURL)
	}
	if c.Catalog.TimeoutSeconds < 0 {
		return errors.New("catalog.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateColor() error {
	if !c.Color.Enabled {
		return nil
	}
	if c.Color.TimeoutSeconds < 0 {
		return errors.New("color.timeout_seconds must be positive")
	}
	if c.Color.PaletteSize < 2 || c.Color.PaletteSize > 64 {
		return errors.New("color.palette_size must be between 2 and 64")
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if c.RateLimit.RPS < 0 {
		return errors.New("rate_limit.rps must not be negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return errors.New("rate_limit.burst must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
