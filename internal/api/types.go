package api

import (
	"encoding/json"
	"time"

	"playbridge/internal/preflight"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// JSONRPCVersion is the only protocol version the daemon accepts.
const JSONRPCVersion = "2.0"

// JSON-RPC error codes returned by the daemon.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeCallFailed     = -32000
	CodeHostNotReady   = -32001
)

// Event names published on the daemon event stream.
const (
	EventReady = "ready"
)

// RPCRequest is a JSON-RPC 2.0 call with positional params.
type RPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// RPCResponse carries exactly one of Result or Error.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// ReadyEvent is the payload of the "ready" event: the methods the host
// surface exposes.
type ReadyEvent struct {
	Methods []string `json:"methods"`
}

// DaemonStatus aggregates runtime information for /api/status.
type DaemonStatus struct {
	Running       bool               `json:"running"`
	Ready         bool               `json:"ready"`
	PID           int                `json:"pid"`
	StartedAt     string             `json:"startedAt,omitempty"`
	Methods       []string           `json:"methods"`
	Authenticated bool               `json:"authenticated"`
	CachePath     string             `json:"cachePath"`
	CacheEntries  int                `json:"cacheEntries"`
	LockFilePath  string             `json:"lockFilePath"`
	Checks        []preflight.Result `json:"checks,omitempty"`
}

// FormatTime renders t for API payloads; the zero time renders empty.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
