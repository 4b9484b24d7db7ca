// Package api defines the wire-format types shared by the daemon's HTTP
// surface and its clients: JSON-RPC envelopes and error codes, the ready
// event payload, and the status document.
//
// Timestamps use RFC3339 with milliseconds. Results are carried as
// json.RawMessage so the caller decides the concrete type.
package api
