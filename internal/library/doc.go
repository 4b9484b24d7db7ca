// Package library holds the consumer view of playlists on top of the bridge
// call facade: the sidebar list and the open playlist, each guarded so a slow
// response never overwrites a newer one.
package library
