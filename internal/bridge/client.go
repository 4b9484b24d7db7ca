package bridge

import (
	"context"

	"playbridge/internal/playlist"
)

// Client exposes one typed operation per registry entry. It holds no state
// besides the dispatcher, so consumers depend only on these names and shapes.
type Client struct {
	d *Dispatcher
}

// NewClient wraps a dispatcher.
func NewClient(d *Dispatcher) *Client {
	return &Client{d: d}
}

// GetPlaylists lists the user's library playlists.
func (c *Client) GetPlaylists(ctx context.Context) Result[[]playlist.Summary] {
	return Call[[]playlist.Summary](ctx, c.d, MethodGetPlaylists)
}

// GetPlaylistItems fetches one playlist with its tracks. forceRefresh bypasses
// the host cache.
func (c *Client) GetPlaylistItems(ctx context.Context, playlistID string, forceRefresh bool) Result[playlist.Details] {
	return Call[playlist.Details](ctx, c.d, MethodGetPlaylistItems, playlistID, forceRefresh)
}

// GenerateAuthHeader submits raw request headers for the host to store as
// credentials.
func (c *Client) GenerateAuthHeader(ctx context.Context, rawHeaders string) Result[struct{}] {
	return Call[struct{}](ctx, c.d, MethodGenerateAuthHeader, rawHeaders)
}

// InvalidatePlaylistCache evicts the given playlists from the host cache.
func (c *Client) InvalidatePlaylistCache(ctx context.Context, playlistIDs []string) Result[playlist.InvalidateReport] {
	if playlistIDs == nil {
		playlistIDs = []string{}
	}
	return Call[playlist.InvalidateReport](ctx, c.d, MethodInvalidatePlaylistCache, playlistIDs)
}

// ClearAllCache empties the host cache.
func (c *Client) ClearAllCache(ctx context.Context) Result[playlist.ClearReport] {
	return Call[playlist.ClearReport](ctx, c.d, MethodClearAllCache)
}
