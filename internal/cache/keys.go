package cache

import "strings"

const playlistKeyPrefix = "playlist:"

// PlaylistKey returns the cache key for a playlist detail.
func PlaylistKey(id string) string {
	return playlistKeyPrefix + strings.TrimSpace(id)
}
