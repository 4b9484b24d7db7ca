package testsupport

import (
	"path/filepath"
	"testing"

	"playbridge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.AuthFile = filepath.Join(base, "auth", "headers_auth.json")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Bridge.ReadyTimeoutMS = 2000
	cfgVal.Bridge.PollIntervalMS = 10
	cfgVal.Catalog.TimeoutSeconds = 5
	cfgVal.Color.TimeoutSeconds = 5
	cfgVal.RateLimit.RPS = 0
	cfgVal.RateLimit.Burst = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithCatalogURL points the upstream catalog client at a test server.
func WithCatalogURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.BaseURL = url
	}
}

// WithAPIToken enables bearer-token auth on the daemon API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithReadiness selects the readiness strategy and budget.
func WithReadiness(strategy string, timeoutMS int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Bridge.Readiness = strategy
		b.cfg.Bridge.ReadyTimeoutMS = timeoutMS
	}
}

// WithRateLimit enables per-client RPC limiting.
func WithRateLimit(rps float64, burst int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.RateLimit.RPS = rps
		b.cfg.RateLimit.Burst = burst
	}
}

// WithColorDisabled turns off thumbnail color extraction.
func WithColorDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Color.Enabled = false
	}
}
