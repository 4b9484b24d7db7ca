package bridge

import (
	"context"
	"sync"
)

// State is the consumer-visible view guarded by a Guard.
type State[T any] struct {
	Data    T
	Loaded  bool
	Loading bool
	Err     string
}

// Guard applies only the outcome of the most recently issued request.
// Superseded outcomes are dropped without touching state or reporting
// anything; the underlying call still runs to completion.
type Guard[T any] struct {
	mu          sync.Mutex
	notifyMu    sync.Mutex
	counter     uint64
	state       State[T]
	subscribers map[int]func(State[T])
	nextSub     int
	version     uint64
	delivered   uint64
}

// NewGuard returns a guard with zero state.
func NewGuard[T any]() *Guard[T] {
	return &Guard[T]{subscribers: make(map[int]func(State[T]))}
}

// Run issues op and waits for it. It reports whether the outcome was applied.
func (g *Guard[T]) Run(ctx context.Context, op func(context.Context) Result[T]) bool {
	token := g.issue()
	return g.complete(token, op(ctx))
}

// Go issues op on a new goroutine. The returned channel yields whether the
// outcome was applied and is then closed.
func (g *Guard[T]) Go(ctx context.Context, op func(context.Context) Result[T]) <-chan bool {
	token := g.issue()
	done := make(chan bool, 1)
	go func() {
		defer close(done)
		done <- g.complete(token, op(ctx))
	}()
	return done
}

// Snapshot returns a copy of the current state.
func (g *Guard[T]) Snapshot() State[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Subscribe registers fn to receive state changes. fn may read Snapshot but
// must not issue requests on the same guard synchronously. The returned func
// removes the subscription.
func (g *Guard[T]) Subscribe(fn func(State[T])) func() {
	if fn == nil {
		return func() {}
	}
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	if g.subscribers == nil {
		g.subscribers = make(map[int]func(State[T]))
	}
	g.subscribers[id] = fn
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.subscribers, id)
		g.mu.Unlock()
	}
}

// Reset supersedes every in-flight request and clears the state. Used when
// the consumer goes away.
func (g *Guard[T]) Reset() {
	g.mu.Lock()
	g.counter++
	g.state = State[T]{}
	g.publishLocked()
}

func (g *Guard[T]) issue() uint64 {
	g.mu.Lock()
	g.counter++
	token := g.counter
	g.state.Loading = true
	g.state.Err = ""
	g.publishLocked()
	return token
}

func (g *Guard[T]) complete(token uint64, res Result[T]) bool {
	g.mu.Lock()
	if token != g.counter {
		g.mu.Unlock()
		return false
	}
	if value, ok := res.Value(); ok {
		g.state.Data = value
		g.state.Loaded = true
	} else {
		g.state.Err = res.Error().Message
	}
	g.state.Loading = false
	g.publishLocked()
	return true
}

// publishLocked releases g.mu and delivers the current state. A delivery
// that lost the race to a newer one is skipped, so subscribers never see
// state move backwards.
func (g *Guard[T]) publishLocked() {
	g.version++
	version := g.version
	snapshot, subs := g.state, g.subscriberList()
	g.mu.Unlock()

	g.notifyMu.Lock()
	defer g.notifyMu.Unlock()
	if version <= g.delivered {
		return
	}
	g.delivered = version
	for _, fn := range subs {
		fn(snapshot)
	}
}

func (g *Guard[T]) subscriberList() []func(State[T]) {
	if len(g.subscribers) == 0 {
		return nil
	}
	out := make([]func(State[T]), 0, len(g.subscribers))
	for _, fn := range g.subscribers {
		out = append(out, fn)
	}
	return out
}
