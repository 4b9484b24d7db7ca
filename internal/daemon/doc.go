// Package daemon runs the long-lived playbridge host process.
//
// It wires configuration, the playlist cache, and the host service into a
// single lifecycle with flock-based locking to prevent multiple instances.
// The HTTP surface exposes the bridge methods as JSON-RPC on /rpc, a server
// sent event stream on /api/events that announces when the host surface is
// installed, plus /api/status, /healthz and Prometheus /metrics.
//
// Keep orchestration here: method behavior lives in musicapi and call
// semantics in bridge.
package daemon
