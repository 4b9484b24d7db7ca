package library

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"playbridge/internal/bridge"
	"playbridge/internal/logging"
	"playbridge/internal/playlist"
)

// Library is the consumer-side view of the user's playlists. Each view is
// held by a staleness guard so that only the latest request decides what is
// shown.
type Library struct {
	client    *bridge.Client
	logger    *slog.Logger
	playlists *bridge.Guard[[]playlist.Summary]
	current   *bridge.Guard[playlist.Details]

	mu         sync.Mutex
	selectedID string
}

// New builds a library over a bridge client.
func New(client *bridge.Client, logger *slog.Logger) *Library {
	return &Library{
		client:    client,
		logger:    logging.NewComponentLogger(logger, "library"),
		playlists: bridge.NewGuard[[]playlist.Summary](),
		current:   bridge.NewGuard[playlist.Details](),
	}
}

// FetchPlaylists reloads the sidebar list and returns the resulting view.
// If a newer fetch was issued meanwhile, the returned view is that of the
// newer request as far as it has progressed.
func (l *Library) FetchPlaylists(ctx context.Context) bridge.State[[]playlist.Summary] {
	l.playlists.Run(ctx, l.client.GetPlaylists)
	return l.playlists.Snapshot()
}

// OpenPlaylist selects a playlist and loads it. Opening another playlist
// before this one returns supersedes it.
func (l *Library) OpenPlaylist(ctx context.Context, id string, forceRefresh bool) bridge.State[playlist.Details] {
	l.mu.Lock()
	l.selectedID = id
	l.mu.Unlock()

	applied := l.current.Run(ctx, func(ctx context.Context) bridge.Result[playlist.Details] {
		return l.client.GetPlaylistItems(ctx, id, forceRefresh)
	})
	if !applied {
		l.logger.Debug("superseded playlist response dropped", logging.String(logging.FieldPlaylistID, id))
	}
	return l.current.Snapshot()
}

// Invalidate evicts playlists from the host cache. When the selected
// playlist is among them it is reloaded.
func (l *Library) Invalidate(ctx context.Context, ids []string) (playlist.InvalidateReport, error) {
	report, err := bridge.Unwrap(l.client.InvalidatePlaylistCache(ctx, ids))
	if err != nil {
		return report, err
	}
	if selected := l.Selected(); selected != "" && slices.Contains(ids, selected) {
		l.OpenPlaylist(ctx, selected, false)
	}
	return report, nil
}

// ClearCache empties the host cache and reloads the selected playlist.
func (l *Library) ClearCache(ctx context.Context) (playlist.ClearReport, error) {
	report, err := bridge.Unwrap(l.client.ClearAllCache(ctx))
	if err != nil {
		return report, err
	}
	if selected := l.Selected(); selected != "" {
		l.OpenPlaylist(ctx, selected, false)
	}
	return report, nil
}

// SaveCredentials submits raw request headers and reloads the playlist list
// on success.
func (l *Library) SaveCredentials(ctx context.Context, rawHeaders string) error {
	if _, err := bridge.Unwrap(l.client.GenerateAuthHeader(ctx, rawHeaders)); err != nil {
		return err
	}
	l.FetchPlaylists(ctx)
	return nil
}

// Selected returns the id of the playlist last opened.
func (l *Library) Selected() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selectedID
}

// Playlists returns the current sidebar view.
func (l *Library) Playlists() bridge.State[[]playlist.Summary] { return l.playlists.Snapshot() }

// Current returns the current playlist view.
func (l *Library) Current() bridge.State[playlist.Details] { return l.current.Snapshot() }

// OnPlaylists registers fn for sidebar view changes.
func (l *Library) OnPlaylists(fn func(bridge.State[[]playlist.Summary])) func() {
	return l.playlists.Subscribe(fn)
}

// OnCurrent registers fn for playlist view changes.
func (l *Library) OnCurrent(fn func(bridge.State[playlist.Details])) func() {
	return l.current.Subscribe(fn)
}

// Close drops every in-flight response and clears both views.
func (l *Library) Close() {
	l.playlists.Reset()
	l.current.Reset()
	l.mu.Lock()
	l.selectedID = ""
	l.mu.Unlock()
}
