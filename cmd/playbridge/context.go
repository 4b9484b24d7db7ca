package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"playbridge/internal/bridge"
	"playbridge/internal/config"
	"playbridge/internal/hostclient"
	"playbridge/internal/library"
	"playbridge/internal/logging"
)

type commandContext struct {
	configFlag *string
	daemonFlag *string
	jsonFlag   *bool
	yamlFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, daemonFlag *string, jsonFlag, yamlFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		daemonFlag: daemonFlag,
		jsonFlag:   jsonFlag,
		yamlFlag:   yamlFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) daemonURL() string {
	if c.daemonFlag != nil {
		if url := strings.TrimSpace(*c.daemonFlag); url != "" {
			return url
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return ""
	}
	return cfg.DaemonURL()
}

// logger writes warnings to stderr only; the daemon owns the log file.
func (c *commandContext) logger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	level := "warn"
	if cfg.Bridge.Debug {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
		Development: cfg.Bridge.Debug,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) hostClient() *hostclient.Client {
	var token string
	if cfg, err := c.ensureConfig(); err == nil {
		token = cfg.Paths.APIToken
	}
	return hostclient.New(c.daemonURL(), token, nil, c.logger())
}

// withLibrary attaches to the daemon in the background and runs fn against
// a library view. Calls issued before the daemon is reachable wait on the
// configured readiness strategy.
func (c *commandContext) withLibrary(cmd *cobra.Command, fn func(context.Context, *library.Library) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger := c.logger()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	host := bridge.NewHost()
	attacher := hostclient.NewAttacher(c.hostClient(), host, cfg.PollInterval())
	go func() { _ = attacher.Attach(ctx, cfg.Bridge.Readiness) }()

	dispatcher := bridge.NewDispatcher(host,
		bridge.WithReadiness(bridge.NewReadiness(cfg.Bridge.Readiness, host, cfg.PollInterval(), cfg.ReadyTimeout())),
		bridge.WithLogger(logger),
		bridge.WithDebug(cfg.Bridge.Debug),
	)
	lib := library.New(bridge.NewClient(dispatcher), logger)
	defer lib.Close()
	return fn(ctx, lib)
}

func (c *commandContext) jsonOutput() bool { return c.jsonFlag != nil && *c.jsonFlag }

func (c *commandContext) yamlOutput() bool { return c.yamlFlag != nil && *c.yamlFlag }

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
