// Package playlist defines the playlist data exchanged between the host
// process and its UI consumers.
//
// The JSON tags match the host wire format exactly (camelCase for most
// fields, snake_case for duration_seconds and the cache reports) so values can
// be decoded straight from the bridge without an intermediate mapping layer.
// Everything here is read-only to consumers: a Details value is replaced
// wholesale on each fetch, never merged.
package playlist
