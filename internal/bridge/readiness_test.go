package bridge_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"playbridge/internal/bridge"
)

func noopSurface(methods ...bridge.Method) bridge.MapSurface {
	surface := bridge.MapSurface{}
	for _, m := range methods {
		surface[m] = func(context.Context, []any) (any, error) { return nil, nil }
	}
	return surface
}

func TestEventMonitorResolvesImmediatelyWhenInstalled(t *testing.T) {
	host := bridge.NewHost()
	host.Install(noopSurface(bridge.MethodGetPlaylists))

	monitor := bridge.NewEventMonitor(host, time.Hour)
	start := time.Now()
	if err := monitor.AwaitReady(context.Background(), bridge.MethodGetPlaylists); err != nil {
		t.Fatalf("AwaitReady: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("expected immediate resolution, took %v", elapsed)
	}
}

func TestEventMonitorResolvesOnLateInstall(t *testing.T) {
	host := bridge.NewHost()
	monitor := bridge.NewEventMonitor(host, 2*time.Second)

	const waiters = 8
	var wg sync.WaitGroup
	errs := make(chan error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- monitor.AwaitReady(context.Background(), bridge.MethodGetPlaylists)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	host.Install(noopSurface(bridge.MethodGetPlaylists))
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("waiter failed: %v", err)
		}
	}
}

func TestEventMonitorTimesOutWithNoHost(t *testing.T) {
	monitor := bridge.NewEventMonitor(bridge.NewHost(), 30*time.Millisecond)
	err := monitor.AwaitReady(context.Background(), bridge.MethodGetPlaylists)
	if !errors.Is(err, &bridge.ErrorInfo{Kind: bridge.KindNoHost}) {
		t.Fatalf("expected NO_HOST, got %v", err)
	}
}

func TestPollMonitorDetectsMethodAfterInstall(t *testing.T) {
	host := bridge.NewHost()
	monitor := bridge.NewPollMonitor(host, 5*time.Millisecond, time.Second)

	go func() {
		time.Sleep(25 * time.Millisecond)
		host.Install(noopSurface(bridge.MethodClearAllCache))
	}()

	if err := monitor.AwaitReady(context.Background(), bridge.MethodClearAllCache); err != nil {
		t.Fatalf("AwaitReady: %v", err)
	}
}

func TestPollMonitorReportsMissingMethodAfterBudget(t *testing.T) {
	host := bridge.NewHost()
	host.Install(noopSurface(bridge.MethodGetPlaylists))
	monitor := bridge.NewPollMonitor(host, 5*time.Millisecond, 40*time.Millisecond)

	start := time.Now()
	err := monitor.AwaitReady(context.Background(), bridge.MethodClearAllCache)
	if !errors.Is(err, &bridge.ErrorInfo{Kind: bridge.KindMethodNotFound}) {
		t.Fatalf("expected METHOD_NOT_FOUND, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("poll budget overran: %v", elapsed)
	}
}

func TestPollMonitorHonoursContext(t *testing.T) {
	monitor := bridge.NewPollMonitor(bridge.NewHost(), 5*time.Millisecond, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := monitor.AwaitReady(ctx, bridge.MethodGetPlaylists)
	if !errors.Is(err, &bridge.ErrorInfo{Kind: bridge.KindNoHost}) {
		t.Fatalf("expected NO_HOST after cancellation, got %v", err)
	}
}

func TestHostInstallIsOneShot(t *testing.T) {
	host := bridge.NewHost()
	if !host.Install(noopSurface(bridge.MethodGetPlaylists)) {
		t.Fatal("first install should succeed")
	}
	if host.Install(noopSurface(bridge.MethodClearAllCache)) {
		t.Fatal("second install should be ignored")
	}
	if host.Has(bridge.MethodClearAllCache) {
		t.Fatal("surface changed after first install")
	}
}

func TestNewReadinessSelectsStrategy(t *testing.T) {
	host := bridge.NewHost()
	if _, ok := bridge.NewReadiness(bridge.StrategyPoll, host, time.Millisecond, time.Second).(*bridge.PollMonitor); !ok {
		t.Fatal("poll strategy should build a PollMonitor")
	}
	if _, ok := bridge.NewReadiness("", host, time.Millisecond, time.Second).(*bridge.EventMonitor); !ok {
		t.Fatal("default strategy should build an EventMonitor")
	}
}
