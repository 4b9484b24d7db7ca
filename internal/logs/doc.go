// Package logs reads the daemon log file for the CLI: the trailing lines and
// a polling follow that survives truncation.
package logs
