// Package daemonctl starts and stops the playbridged process on behalf of
// the CLI. It reaches the daemon only through its HTTP API and signals.
package daemonctl
