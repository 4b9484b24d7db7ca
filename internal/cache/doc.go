// Package cache persists host-side response data in SQLite with a per-entry
// TTL.
//
// Entries are opaque byte values keyed by string; playlist details live under
// PlaylistKey. Expired rows read as missing and are swept by PurgeExpired.
// The database is disposable: a schema mismatch asks the operator to delete
// it rather than migrating.
package cache
