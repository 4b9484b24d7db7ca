// Package bridge calls procedures exposed by a host process whose call
// surface appears at an unpredictable time.
//
// The pieces, leaves first:
//   - Registry: the fixed method name to parameter/response contract.
//   - Result: the ok/error envelope every call returns.
//   - Host: the injected surface slot with an explicit "not installed" state.
//   - Readiness: EventMonitor (one-shot ready signal) and PollMonitor
//     (fixed-interval lookup with a timeout budget).
//   - Dispatcher: waits for readiness, resolves and invokes the callable, and
//     narrows the response to the registry type.
//   - Client: one typed method per registry entry.
//   - Guard: last-issued-wins state for consumers that re-issue requests.
//
// Nothing in this package returns a Go error to the caller of a remote
// operation; every failure becomes an ErrorInfo inside a Result.
package bridge
