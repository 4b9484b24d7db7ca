// Package services defines shared utilities consumed by the host
// implementation and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp bridge method names, playlist IDs, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent API statuses.
//
// Integrations with remote services live in subpackages (see catalog).
package services
