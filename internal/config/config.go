package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory, credential and bind address configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
	AuthFile string `toml:"auth_file"`
	APIBind  string `toml:"api_bind"`
	APIToken string `toml:"api_token"`
}

// Bridge controls how the UI side waits for the host call surface.
type Bridge struct {
	// Readiness selects the detection strategy: "event" waits for the
	// host's ready signal, "poll" probes for the method at a fixed interval.
	Readiness      string `toml:"readiness"`
	ReadyTimeoutMS int    `toml:"ready_timeout_ms"`
	PollIntervalMS int    `toml:"poll_interval_ms"`
	Debug          bool   `toml:"debug"`
}

// Cache contains configuration for the host playlist cache.
type Cache struct {
	PlaylistTTLMinutes int `toml:"playlist_ttl_minutes"`
}

// Catalog contains configuration for the upstream playlist catalog.
type Catalog struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Color contains configuration for dominant color extraction.
type Color struct {
	Enabled        bool `toml:"enabled"`
	TimeoutSeconds int  `toml:"timeout_seconds"`
	PaletteSize    int  `toml:"palette_size"`
}

// RateLimit bounds per-client JSON-RPC traffic on the daemon.
type RateLimit struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for playbridge.
//
// Configuration sections by subsystem:
//   - Paths: state directory, credentials file and API bind address
//   - Bridge: readiness strategy and timeouts on the UI side
//   - Cache: playlist detail TTL on the host
//   - Catalog: upstream playlist service
//   - Color: thumbnail accent color extraction
//   - RateLimit: per-client daemon RPC limits
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Bridge    Bridge    `toml:"bridge"`
	Cache     Cache     `toml:"cache"`
	Catalog   Catalog   `toml:"catalog"`
	Color     Color     `toml:"color"`
	RateLimit RateLimit `toml:"rate_limit"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("playbridge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir, filepath.Dir(c.Paths.AuthFile)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CachePath returns the SQLite file backing the playlist cache.
func (c *Config) CachePath() string {
	return filepath.Join(c.Paths.StateDir, "cache.db")
}

// LockPath returns the single-instance lock file for the daemon.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "playbridged.lock")
}

// DaemonURL returns the base URL clients use to reach the daemon API.
func (c *Config) DaemonURL() string {
	return "http://" + c.Paths.APIBind
}

// ReadyTimeout is the readiness budget as a duration.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.Bridge.ReadyTimeoutMS) * time.Millisecond
}

// PollInterval is the readiness probe interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Bridge.PollIntervalMS) * time.Millisecond
}

// PlaylistTTL is how long a cached playlist detail stays fresh.
func (c *Config) PlaylistTTL() time.Duration {
	return time.Duration(c.Cache.PlaylistTTLMinutes) * time.Minute
}

// CatalogTimeout bounds each upstream catalog request.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

// ColorTimeout bounds thumbnail download and decoding.
func (c *Config) ColorTimeout() time.Duration {
	return time.Duration(c.Color.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
