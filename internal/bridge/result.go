package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies why a bridge call did not produce a value.
type ErrorKind string

const (
	// KindNoHost means the host call surface never appeared within the timeout.
	KindNoHost ErrorKind = "NO_HOST"
	// KindMethodNotFound means the surface is installed but lacks the method.
	KindMethodNotFound ErrorKind = "METHOD_NOT_FOUND"
	// KindCallFailed means the method ran and returned an error.
	KindCallFailed ErrorKind = "CALL_FAILED"
)

// ErrorInfo is the structured failure carried by an error Result.
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func newErrorInfo(kind ErrorKind, message string) *ErrorInfo {
	return &ErrorInfo{Kind: kind, Message: message}
}

func (e *ErrorInfo) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches another *ErrorInfo by kind so callers can write
// errors.Is(err, &bridge.ErrorInfo{Kind: bridge.KindNoHost}).
func (e *ErrorInfo) Is(target error) bool {
	var other *ErrorInfo
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Kind == other.Kind
}

// Result is either a value or an ErrorInfo, never both.
type Result[T any] struct {
	value T
	err   *ErrorInfo
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err builds a failed result.
func Err[T any](kind ErrorKind, message string) Result[T] {
	return Result[T]{err: newErrorInfo(kind, message)}
}

func errFrom[T any](info *ErrorInfo) Result[T] {
	return Result[T]{err: info}
}

// OK reports whether the result carries a value.
func (r Result[T]) OK() bool { return r.err == nil }

// Value returns the payload and true on success, or the zero value and false.
func (r Result[T]) Value() (T, bool) {
	if r.err != nil {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Error returns the failure, or nil on success.
func (r Result[T]) Error() *ErrorInfo { return r.err }

// Unwrap converts the result into Go's value/error pair.
func Unwrap[T any](r Result[T]) (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// UnwrapOr returns the payload, or fallback when the result is an error.
func UnwrapOr[T any](r Result[T], fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

type resultJSON[T any] struct {
	OK    bool       `json:"ok"`
	Value *T         `json:"value,omitempty"`
	Error *ErrorInfo `json:"error,omitempty"`
}

// MarshalJSON encodes {"ok":true,"value":...} or {"ok":false,"error":{...}}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		return json.Marshal(resultJSON[T]{OK: false, Error: r.err})
	}
	value := r.value
	return json.Marshal(resultJSON[T]{OK: true, Value: &value})
}

// UnmarshalJSON decodes the envelope and enforces that exactly one side is set.
func (r *Result[T]) UnmarshalJSON(data []byte) error {
	var raw resultJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.OK {
		if raw.Error != nil {
			return errors.New("result: ok envelope carries an error")
		}
		*r = Result[T]{}
		if raw.Value != nil {
			r.value = *raw.Value
		}
		return nil
	}
	if raw.Error == nil {
		return errors.New("result: error envelope without error info")
	}
	*r = Result[T]{err: raw.Error}
	return nil
}
