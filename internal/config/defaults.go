package config

const (
	defaultConfigPath         = "~/.config/playbridge/config.toml"
	defaultStateDir           = "~/.local/share/playbridge"
	defaultLogDir             = "~/.local/share/playbridge/logs"
	defaultAuthFile           = "~/.config/playbridge/headers_auth.json"
	defaultAPIBind            = "127.0.0.1:7497"
	defaultReadiness          = ReadinessEvent
	defaultReadyTimeoutMS     = 30000
	defaultPollIntervalMS     = 50
	defaultPlaylistTTLMinutes = 30
	defaultCatalogBaseURL     = "https://music.youtube.com/youtubei/v1"
	defaultCatalogTimeout     = 20
	defaultColorTimeout       = 10
	defaultPaletteSize        = 8
	defaultRateLimitRPS       = 20
	defaultRateLimitBurst     = 40
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Readiness strategies accepted by bridge.readiness.
const (
	ReadinessEvent = "event"
	ReadinessPoll  = "poll"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
			AuthFile: defaultAuthFile,
			APIBind:  defaultAPIBind,
		},
		Bridge: Bridge{
			Readiness:      defaultReadiness,
			ReadyTimeoutMS: defaultReadyTimeoutMS,
			PollIntervalMS: defaultPollIntervalMS,
		},
		Cache: Cache{
			PlaylistTTLMinutes: defaultPlaylistTTLMinutes,
		},
		Catalog: Catalog{
			BaseURL:        defaultCatalogBaseURL,
			TimeoutSeconds: defaultCatalogTimeout,
		},
		Color: Color{
			Enabled:        true,
			TimeoutSeconds: defaultColorTimeout,
			PaletteSize:    defaultPaletteSize,
		},
		RateLimit: RateLimit{
			RPS:   defaultRateLimitRPS,
			Burst: defaultRateLimitBurst,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
