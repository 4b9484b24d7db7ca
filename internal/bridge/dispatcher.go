package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"playbridge/internal/logging"
)

// Observer receives one notification per settled call. kind is empty on
// success.
type Observer func(method Method, kind ErrorKind, elapsed time.Duration)

// Dispatcher performs remote calls against a Host and normalizes every
// outcome into a Result. It never panics or returns a Go error outward.
type Dispatcher struct {
	host      *Host
	readiness Readiness
	logger    *slog.Logger
	debug     bool
	observer  Observer
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithReadiness selects the readiness strategy. The default is an
// EventMonitor with DefaultReadyTimeout.
func WithReadiness(r Readiness) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.readiness = r
		}
	}
}

// WithLogger sets the logger used for call tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logging.NewComponentLogger(logger, "bridge")
		}
	}
}

// WithDebug enables per-call trace lines.
func WithDebug(enabled bool) Option {
	return func(d *Dispatcher) { d.debug = enabled }
}

// WithObserver registers a hook called after every call settles.
func WithObserver(obs Observer) Option {
	return func(d *Dispatcher) { d.observer = obs }
}

// NewDispatcher constructs a dispatcher bound to host.
func NewDispatcher(host *Host, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		host:   host,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.readiness == nil {
		d.readiness = NewEventMonitor(host, DefaultReadyTimeout)
	}
	return d
}

// Host returns the host slot the dispatcher calls into.
func (d *Dispatcher) Host() *Host { return d.host }

// Invoke calls method with args and returns the untyped outcome.
func (d *Dispatcher) Invoke(ctx context.Context, method Method, args ...any) Result[any] {
	started := time.Now()
	res := d.invoke(ctx, method, args)
	d.settle(method, res.Error(), started)
	return res
}

// Call performs a dispatch and narrows the response to T.
func Call[T any](ctx context.Context, d *Dispatcher, method Method, args ...any) Result[T] {
	started := time.Now()
	raw := d.invoke(ctx, method, args)
	if info := raw.Error(); info != nil {
		d.settle(method, info, started)
		return errFrom[T](info)
	}
	value, _ := raw.Value()
	typed, err := narrow[T](value)
	if err != nil {
		info := newErrorInfo(KindCallFailed, fmt.Sprintf("decode %s response: %v", method, err))
		d.settle(method, info, started)
		return errFrom[T](info)
	}
	d.settle(method, nil, started)
	return Ok(typed)
}

func (d *Dispatcher) invoke(ctx context.Context, method Method, args []any) Result[any] {
	if ctx == nil {
		ctx = context.Background()
	}
	spec, ok := Lookup(method)
	if !ok {
		return Err[any](KindMethodNotFound, fmt.Sprintf("method %q is not registered", method))
	}
	bound, err := spec.Bind(args)
	if err != nil {
		return Err[any](KindCallFailed, err.Error())
	}

	d.trace("bridge call issued", logging.String("method", string(method)), logging.Int("arg_count", len(bound)))

	if err := d.readiness.AwaitReady(ctx, method); err != nil {
		return errFrom[any](asErrorInfo(err, KindNoHost))
	}
	surface, ok := d.host.Surface()
	if !ok {
		return Err[any](KindNoHost, "host surface unavailable")
	}
	fn, ok := surface.Lookup(method)
	if !ok {
		return Err[any](KindMethodNotFound, fmt.Sprintf("method %q not found on host", method))
	}

	value, err := safeCall(ctx, fn, bound)
	if err != nil {
		return errFrom[any](asErrorInfo(err, KindCallFailed))
	}
	return Ok(value)
}

func safeCall(ctx context.Context, fn Func, args []any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = rerr
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn(ctx, args)
}

func errorMessage(err error) string {
	var info *ErrorInfo
	if errors.As(err, &info) && info != nil {
		return info.Message
	}
	msg := err.Error()
	if msg == "" {
		return fmt.Sprintf("%T", err)
	}
	return msg
}

func asErrorInfo(err error, fallback ErrorKind) *ErrorInfo {
	var info *ErrorInfo
	if errors.As(err, &info) && info != nil {
		return info
	}
	return newErrorInfo(fallback, errorMessage(err))
}

func (d *Dispatcher) settle(method Method, info *ErrorInfo, started time.Time) {
	elapsed := time.Since(started)
	var kind ErrorKind
	if info != nil {
		kind = info.Kind
		d.trace("bridge call failed",
			logging.String("method", string(method)),
			logging.String("error_kind", string(info.Kind)),
			logging.String("error_message", info.Message),
			logging.Duration("call_duration", elapsed))
	} else {
		d.trace("bridge call returned",
			logging.String("method", string(method)),
			logging.Duration("call_duration", elapsed))
	}
	if d.observer != nil {
		d.observer(method, kind, elapsed)
	}
}

func (d *Dispatcher) trace(msg string, attrs ...logging.Attr) {
	if !d.debug || d.logger == nil {
		return
	}
	d.logger.Debug(msg, logging.Args(attrs...)...)
}

// narrow converts a loosely typed host response into T.
func narrow[T any](value any) (T, error) {
	var out T
	switch v := value.(type) {
	case T:
		return v, nil
	case nil:
		return out, nil
	case json.RawMessage:
		return decodeRaw[T](v)
	case []byte:
		return decodeRaw[T](v)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return out, err
	}
	return decodeRaw[T](data)
}

func decodeRaw[T any](data []byte) (T, error) {
	var out T
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}
