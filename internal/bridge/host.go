package bridge

import (
	"context"
	"sync"
)

// Func is one callable on the host surface. Args are already bound against
// the registry entry. The returned value may be the typed response, raw JSON,
// or any loosely typed value the dispatcher can narrow.
type Func func(ctx context.Context, args []any) (any, error)

// Surface is the host call surface: a set of named callables.
type Surface interface {
	Lookup(method Method) (Func, bool)
}

// MapSurface is a Surface backed by a fixed method table.
type MapSurface map[Method]Func

// Lookup implements Surface.
func (m MapSurface) Lookup(method Method) (Func, bool) {
	fn, ok := m[method]
	if !ok || fn == nil {
		return nil, false
	}
	return fn, true
}

// Host holds the call surface once it is installed. Until then it is in an
// explicit "not yet available" state. Install happens at most once and the
// surface is read-only afterwards.
type Host struct {
	mu      sync.RWMutex
	surface Surface
	ready   chan struct{}
	once    sync.Once
}

// NewHost returns an empty host slot.
func NewHost() *Host {
	return &Host{ready: make(chan struct{})}
}

// Install publishes the surface and fires the ready signal. Subsequent calls
// are ignored and return false.
func (h *Host) Install(surface Surface) bool {
	if surface == nil {
		return false
	}
	installed := false
	h.once.Do(func() {
		h.mu.Lock()
		h.surface = surface
		h.mu.Unlock()
		close(h.ready)
		installed = true
	})
	return installed
}

// Surface returns the installed surface, if any.
func (h *Host) Surface() (Surface, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.surface, h.surface != nil
}

// Ready is closed once the surface is installed. Waiters that arrive after
// installation observe a closed channel and never block.
func (h *Host) Ready() <-chan struct{} {
	return h.ready
}

// Has reports whether the surface is installed and exposes method.
func (h *Host) Has(method Method) bool {
	surface, ok := h.Surface()
	if !ok {
		return false
	}
	_, ok = surface.Lookup(method)
	return ok
}

// WaitInstalled blocks until the surface is installed or ctx ends.
func (h *Host) WaitInstalled(ctx context.Context) error {
	select {
	case <-h.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
