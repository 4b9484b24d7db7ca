package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"playbridge/internal/api"
	"playbridge/internal/bridge"
	"playbridge/internal/cache"
	"playbridge/internal/config"
	"playbridge/internal/logging"
	"playbridge/internal/musicapi"
	"playbridge/internal/preflight"
)

// Daemon owns the host call surface and serves it over HTTP. It enforces
// single-instance execution with a lock file in the state directory.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *cache.Store
	service *musicapi.Service

	host       *bridge.Host
	dispatcher *bridge.Dispatcher
	broker     *broker
	metrics    *metrics
	api        *apiServer

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt atomic.Int64
	prepare   sync.WaitGroup
	checksMu  sync.Mutex
	checks    []preflight.Result
	cancel    context.CancelFunc
}

// Option customizes a Daemon.
type Option func(*options)

type options struct {
	service []musicapi.Option
}

// WithServiceOptions forwards options to the host service.
func WithServiceOptions(opts ...musicapi.Option) Option {
	return func(o *options) { o.service = append(o.service, opts...) }
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *cache.Store, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and cache store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		host:     bridge.NewHost(),
		broker:   newBroker(),
		metrics:  newMetrics(),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}

	serviceOpts := append([]musicapi.Option{musicapi.WithEvents(d.broker.publishHostEvent)}, o.service...)
	svc, err := musicapi.New(cfg, store, logger, serviceOpts...)
	if err != nil {
		return nil, fmt.Errorf("host service: %w", err)
	}
	d.service = svc

	d.dispatcher = bridge.NewDispatcher(d.host,
		bridge.WithReadiness(bridge.NewReadiness(cfg.Bridge.Readiness, d.host, cfg.PollInterval(), cfg.ReadyTimeout())),
		bridge.WithLogger(logger),
		bridge.WithDebug(cfg.Bridge.Debug),
		bridge.WithObserver(d.metrics.observe),
	)
	d.api = newAPIServer(cfg, d.host, d.dispatcher, d.broker, d.metrics, d.Status, logger)
	return d, nil
}

// Start acquires the daemon lock and begins serving. The host surface is
// installed once startup checks finish; calls that arrive earlier wait on
// readiness.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another playbridge daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel
	d.startedAt.Store(time.Now().UnixNano())
	d.running.Store(true)
	d.logger.Info("playbridge daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.api.addr()))

	d.prepare.Add(1)
	go func() {
		defer d.prepare.Done()
		d.installSurface(runCtx)
	}()
	return nil
}

func (d *Daemon) installSurface(ctx context.Context) {
	results := preflight.RunAll(ctx, d.cfg)
	d.checksMu.Lock()
	d.checks = results
	d.checksMu.Unlock()
	for _, failed := range preflight.Failed(results) {
		logging.WarnWithContext(d.logger, "preflight check failed", "preflight_failed",
			logging.String("check", failed.Name),
			logging.String("detail", failed.Detail),
			logging.String(logging.FieldImpact, "calls depending on this check will fail"))
	}

	if purged, err := d.store.PurgeExpired(ctx); err != nil {
		d.logger.Warn("cache purge failed", logging.Error(err))
	} else if purged > 0 {
		d.logger.Info("expired cache entries purged", logging.Int64("purged", purged))
	}

	if ctx.Err() != nil {
		return
	}
	if d.host.Install(d.service.Surface()) {
		d.metrics.ready.Set(1)
		d.logger.Info("host surface installed", logging.Int("methods", len(bridge.Methods())))
	}
}

// Stop stops serving and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.prepare.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("playbridge daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the address the API listens on, or "" when stopped.
func (d *Daemon) Addr() string {
	return d.api.addr()
}

// Host exposes the host slot, mainly for embedding the daemon in process.
func (d *Daemon) Host() *bridge.Host {
	return d.host
}

// Status reports daemon runtime information.
func (d *Daemon) Status(ctx context.Context) api.DaemonStatus {
	_, ready := d.host.Surface()
	status := api.DaemonStatus{
		Running:       d.running.Load(),
		Ready:         ready,
		PID:           os.Getpid(),
		Methods:       readyPayload(d.host).Methods,
		Authenticated: d.service.Authenticated(),
		CachePath:     d.store.Path(),
		LockFilePath:  d.lockPath,
	}
	if started := d.startedAt.Load(); started > 0 {
		status.StartedAt = api.FormatTime(time.Unix(0, started))
	}
	if count, err := d.store.Count(ctx); err == nil {
		status.CacheEntries = count
	}
	d.checksMu.Lock()
	status.Checks = append([]preflight.Result(nil), d.checks...)
	d.checksMu.Unlock()
	return status
}
