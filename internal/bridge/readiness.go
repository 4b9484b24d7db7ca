package bridge

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultReadyTimeout bounds how long a call waits for the host surface.
	DefaultReadyTimeout = 30 * time.Second
	// DefaultPollInterval is the PollMonitor check period.
	DefaultPollInterval = 50 * time.Millisecond

	readyTimeoutMessage = "host initialization timed out"
)

// Readiness resolves once the host surface is usable for method, or fails
// with an *ErrorInfo after a bounded wait. Implementations must be safe for
// concurrent use.
type Readiness interface {
	AwaitReady(ctx context.Context, method Method) error
}

// EventMonitor waits for the host's one-shot ready signal. A surface that is
// already installed resolves immediately.
type EventMonitor struct {
	Host    *Host
	Timeout time.Duration
}

// NewEventMonitor builds an EventMonitor; a non-positive timeout selects the default.
func NewEventMonitor(host *Host, timeout time.Duration) *EventMonitor {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	return &EventMonitor{Host: host, Timeout: timeout}
}

// AwaitReady implements Readiness. The method name is not consulted: a
// missing method is reported by the dispatcher after lookup.
func (m *EventMonitor) AwaitReady(ctx context.Context, _ Method) error {
	if m == nil || m.Host == nil {
		return newErrorInfo(KindNoHost, "no host configured")
	}
	if _, ok := m.Host.Surface(); ok {
		return nil
	}
	timer := time.NewTimer(m.timeout())
	defer timer.Stop()
	select {
	case <-m.Host.Ready():
		return nil
	case <-timer.C:
		return newErrorInfo(KindNoHost, readyTimeoutMessage)
	case <-ctx.Done():
		return newErrorInfo(KindNoHost, fmt.Sprintf("waiting for host: %v", ctx.Err()))
	}
}

func (m *EventMonitor) timeout() time.Duration {
	if m.Timeout <= 0 {
		return DefaultReadyTimeout
	}
	return m.Timeout
}

// PollMonitor checks the host surface for the named method at a fixed
// interval until it appears or the timeout budget is spent.
type PollMonitor struct {
	Host     *Host
	Interval time.Duration
	Timeout  time.Duration
}

// NewPollMonitor builds a PollMonitor; non-positive values select defaults.
func NewPollMonitor(host *Host, interval, timeout time.Duration) *PollMonitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	return &PollMonitor{Host: host, Interval: interval, Timeout: timeout}
}

// AwaitReady implements Readiness.
func (m *PollMonitor) AwaitReady(ctx context.Context, method Method) error {
	if m == nil || m.Host == nil {
		return newErrorInfo(KindNoHost, "no host configured")
	}
	if m.Host.Has(method) {
		return nil
	}
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ticker.C:
			if m.Host.Has(method) {
				return nil
			}
		case <-deadline.C:
			return m.timeoutError(method)
		case <-ctx.Done():
			return newErrorInfo(KindNoHost, fmt.Sprintf("waiting for host: %v", ctx.Err()))
		}
	}
}

func (m *PollMonitor) timeoutError(method Method) error {
	if _, ok := m.Host.Surface(); ok {
		return newErrorInfo(KindMethodNotFound, fmt.Sprintf("method %q not found on host", method))
	}
	return newErrorInfo(KindNoHost, readyTimeoutMessage)
}

// Readiness strategy names accepted by NewReadiness.
const (
	StrategyEvent = "event"
	StrategyPoll  = "poll"
)

// NewReadiness selects a monitor by strategy name. Unknown names fall back
// to the event monitor.
func NewReadiness(strategy string, host *Host, interval, timeout time.Duration) Readiness {
	if strategy == StrategyPoll {
		return NewPollMonitor(host, interval, timeout)
	}
	return NewEventMonitor(host, timeout)
}
