// Package hostclient is the UI side of the daemon connection.
//
// Client performs JSON-RPC calls and status probes. RPCSurface adapts those
// calls to a bridge.Surface, and Attacher installs it into a bridge.Host
// either on the daemon's ready event or once a health probe succeeds. Until
// then bridge dispatchers simply wait on readiness.
package hostclient
