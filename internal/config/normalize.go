package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBridge()
	c.normalizeCatalog()
	c.normalizeColor()
	c.normalizeRateLimit()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AuthFile) == "" {
		c.Paths.AuthFile = defaultAuthFile
	}
	if c.Paths.AuthFile, err = expandPath(c.Paths.AuthFile); err != nil {
		return fmt.Errorf("paths.auth_file: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("PLAYBRIDGE_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeBridge() {
	c.Bridge.Readiness = strings.ToLower(strings.TrimSpace(c.Bridge.Readiness))
	if c.Bridge.Readiness == "" {
		c.Bridge.Readiness = defaultReadiness
	}
	if c.Bridge.ReadyTimeoutMS == 0 {
		c.Bridge.ReadyTimeoutMS = defaultReadyTimeoutMS
	}
	if c.Bridge.PollIntervalMS == 0 {
		c.Bridge.PollIntervalMS = defaultPollIntervalMS
	}
	if c.Cache.PlaylistTTLMinutes == 0 {
		c.Cache.PlaylistTTLMinutes = defaultPlaylistTTLMinutes
	}
}

func (c *Config) normalizeCatalog() {
	if value, ok := os.LookupEnv("PLAYBRIDGE_CATALOG_URL"); ok && strings.TrimSpace(value) != "" {
		c.Catalog.BaseURL = value
	}
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
	if c.Catalog.TimeoutSeconds == 0 {
		c.Catalog.TimeoutSeconds = defaultCatalogTimeout
	}
}

func (c *Config) normalizeColor() {
	if c.Color.TimeoutSeconds == 0 {
		c.Color.TimeoutSeconds = defaultColorTimeout
	}
	if c.Color.PaletteSize == 0 {
		c.Color.PaletteSize = defaultPaletteSize
	}
}

func (c *Config) normalizeRateLimit() {
	if c.RateLimit.Burst == 0 && c.RateLimit.RPS > 0 {
		c.RateLimit.Burst = int(c.RateLimit.RPS * 2)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
