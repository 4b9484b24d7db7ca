// Package logging assembles structured slog loggers and formatting helpers
// shared by the daemon and the CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so host handlers automatically
// tag log lines with method names, playlist IDs and correlation IDs. NewNop
// gives tests and optional wiring a logger that cannot fail.
package logging
