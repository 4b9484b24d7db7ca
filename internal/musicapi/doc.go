// Package musicapi implements the host side of every bridge method: library
// listing, cached playlist detail with thumbnail color, credential capture and
// cache invalidation.
//
// The Service is handed to a bridge.Host through Surface, either directly in
// process or behind the daemon's JSON-RPC endpoint.
package musicapi
