package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"playbridge/internal/cache"
	"playbridge/internal/config"
	"playbridge/internal/daemon"
	"playbridge/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, path, exists, err := config.Load(os.Getenv("PLAYBRIDGE_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if !exists {
		logger.Warn("config file not found; using defaults", logging.String("path", path))
	}

	store, err := cache.Open(cfg.CachePath())
	if err != nil {
		logger.Error("open cache store", logging.Error(err))
		os.Exit(1)
	}

	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		_ = store.Close()
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		_ = d.Close()
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("playbridged shutting down")
}
