// Package preflight runs the readiness checks shared by the daemon startup
// path and the `playbridge status` command: state and log directory access,
// stored credentials, and a catalog account probe.
package preflight
