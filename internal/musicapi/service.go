package musicapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"playbridge/internal/auth"
	"playbridge/internal/cache"
	"playbridge/internal/color"
	"playbridge/internal/config"
	"playbridge/internal/logging"
	"playbridge/internal/playlist"
	"playbridge/internal/services"
	"playbridge/internal/services/catalog"
)

// Catalog is the upstream source of playlists.
type Catalog interface {
	Account(ctx context.Context) (*catalog.Account, error)
	LibraryPlaylists(ctx context.Context) ([]playlist.Summary, error)
	Playlist(ctx context.Context, id string) (*playlist.Details, error)
}

// CatalogFactory builds a catalog client from credential headers.
type CatalogFactory func(headers map[string]string) Catalog

// ColorSource resolves a thumbnail URL to a "#rrggbb" color.
type ColorSource interface {
	DominantHex(ctx context.Context, imageURL string) (string, error)
}

// Event reports a host-side state change that UI consumers may care about.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

const (
	EventAuthUpdated      = "auth_updated"
	EventCacheInvalidated = "cache_invalidated"
	EventCacheCleared     = "cache_cleared"
)

// Service implements every registered bridge method on the host.
type Service struct {
	cache      *cache.Store
	creds      *auth.FileStore
	newCatalog CatalogFactory
	colors     ColorSource
	ttl        time.Duration
	logger     *slog.Logger
	publish    func(Event)

	mu      sync.Mutex
	catalog Catalog
}

// Option customizes a Service.
type Option func(*Service)

// WithCatalogFactory replaces the default HTTP catalog client.
func WithCatalogFactory(factory CatalogFactory) Option {
	return func(s *Service) {
		if factory != nil {
			s.newCatalog = factory
		}
	}
}

// WithColorSource replaces the thumbnail color extractor. Passing nil
// disables color extraction.
func WithColorSource(src ColorSource) Option {
	return func(s *Service) { s.colors = src }
}

// WithEvents registers a sink for host events.
func WithEvents(publish func(Event)) Option {
	return func(s *Service) { s.publish = publish }
}

// New constructs the host service from configuration.
func New(cfg *config.Config, store *cache.Store, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("musicapi requires config and cache store")
	}
	logger = logging.NewComponentLogger(logger, "musicapi")
	httpClient := &http.Client{}
	baseURL := cfg.Catalog.BaseURL
	timeout := cfg.CatalogTimeout()

	s := &Service{
		cache: store,
		creds: auth.NewFileStore(cfg.Paths.AuthFile),
		newCatalog: func(headers map[string]string) Catalog {
			return catalog.NewClient(baseURL, headers, httpClient, timeout)
		},
		ttl:    cfg.PlaylistTTL(),
		logger: logger,
	}
	if cfg.Color.Enabled {
		s.colors = color.NewExtractor(httpClient, cfg.Color.PaletteSize, cfg.ColorTimeout(), logger)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetPlaylists lists the user's library playlists.
func (s *Service) GetPlaylists(ctx context.Context) ([]playlist.Summary, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	playlists, err := client.LibraryPlaylists(ctx)
	if err != nil {
		s.dropClientOnAuthFailure(err)
		return nil, err
	}
	return playlists, nil
}

// GetPlaylistItems returns a playlist's full listing. Unless forceRefresh is
// set, a live cache entry is returned without contacting the catalog.
func (s *Service) GetPlaylistItems(ctx context.Context, playlistID string, forceRefresh bool) (*playlist.Details, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return nil, services.Wrap(services.ErrValidation, "musicapi", "get_playlist_items", "playlist id is required", nil)
	}
	key := cache.PlaylistKey(playlistID)
	ctx = services.WithPlaylistID(ctx, playlistID)

	if !forceRefresh {
		var cached playlist.Details
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, s.logger), "playlist cache read failed", "cache_read_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "playlist refetched from catalog"))
		} else if found {
			s.logger.Debug("playlist served from cache", logging.String(logging.FieldPlaylistID, playlistID))
			return &cached, nil
		}
	}

	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	details, err := client.Playlist(ctx, playlistID)
	if err != nil {
		s.dropClientOnAuthFailure(err)
		return nil, err
	}
	details.DominantColor = s.dominantColor(ctx, details.Thumbnails)

	if err := s.cache.SetJSON(ctx, key, details, s.ttl); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "playlist cache write failed", "cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "next open refetches from catalog"))
	}
	s.logger.Info("playlist fetched",
		logging.String(logging.FieldPlaylistID, playlistID),
		logging.Int("track_count", len(details.Tracks)),
		logging.Bool("force_refresh", forceRefresh))
	return details, nil
}

// GenerateAuthHeader stores raw request headers as credentials and drops the
// current catalog client so the next call authenticates with them.
func (s *Service) GenerateAuthHeader(_ context.Context, rawHeaders string) error {
	headers, err := s.creds.SaveRaw(rawHeaders)
	if err != nil {
		return services.Wrap(services.ErrValidation, "musicapi", "generate_auth_header", "store credentials", err)
	}
	s.resetClient()
	s.logger.Info("credentials updated",
		logging.String("auth_file", s.creds.Path()),
		logging.Int("header_count", len(headers)))
	s.emit(Event{Type: EventAuthUpdated})
	return nil
}

// InvalidatePlaylistCache evicts each playlist and reports which ids had a
// live entry.
func (s *Service) InvalidatePlaylistCache(ctx context.Context, playlistIDs []string) (playlist.InvalidateReport, error) {
	report := playlist.InvalidateReport{Invalidated: []string{}, NotFound: []string{}}
	for _, id := range playlistIDs {
		removed, err := s.cache.Delete(ctx, cache.PlaylistKey(id))
		if err != nil {
			return report, services.Wrap(services.ErrTransient, "musicapi", "invalidate_playlist_cache", "delete "+id, err)
		}
		if removed {
			report.Invalidated = append(report.Invalidated, id)
		} else {
			report.NotFound = append(report.NotFound, id)
		}
	}
	if len(report.Invalidated) > 0 {
		s.emit(Event{Type: EventCacheInvalidated, Data: report})
	}
	return report, nil
}

// ClearAllCache empties the cache and reports how many live entries it held.
func (s *Service) ClearAllCache(ctx context.Context) (playlist.ClearReport, error) {
	cleared, err := s.cache.Clear(ctx)
	if err != nil {
		return playlist.ClearReport{}, services.Wrap(services.ErrTransient, "musicapi", "clear_all_cache", "clear cache", err)
	}
	s.logger.Info("playlist cache cleared", logging.Int("cleared", cleared))
	report := playlist.ClearReport{Cleared: cleared}
	s.emit(Event{Type: EventCacheCleared, Data: report})
	return report, nil
}

// Authenticated reports whether credentials are stored.
func (s *Service) Authenticated() bool {
	return s.creds.Exists()
}

func (s *Service) client(ctx context.Context) (Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog != nil {
		return s.catalog, nil
	}

	headers, err := s.creds.Load()
	if err != nil {
		if errors.Is(err, auth.ErrNoCredentials) {
			return nil, services.Wrap(services.ErrUnauthenticated, "musicapi", "authenticate",
				"no credentials stored; submit request headers first", nil)
		}
		return nil, services.Wrap(services.ErrConfiguration, "musicapi", "authenticate", "load credentials", err)
	}
	client := s.newCatalog(headers)
	account, err := client.Account(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("catalog session established", logging.String("account", account.Name))
	s.catalog = client
	return client, nil
}

func (s *Service) resetClient() {
	s.mu.Lock()
	s.catalog = nil
	s.mu.Unlock()
}

func (s *Service) dropClientOnAuthFailure(err error) {
	if errors.Is(err, services.ErrUnauthenticated) {
		s.resetClient()
	}
}

func (s *Service) dominantColor(ctx context.Context, thumbs []playlist.Thumbnail) *string {
	if s.colors == nil {
		return nil
	}
	thumb, ok := playlist.LargestThumbnail(thumbs)
	if !ok || strings.TrimSpace(thumb.URL) == "" {
		return nil
	}
	hex, err := s.colors.DominantHex(ctx, thumb.URL)
	if err != nil {
		s.logger.Debug("dominant color unavailable",
			logging.String("thumbnail_url", thumb.URL),
			logging.Error(err))
		return nil
	}
	return &hex
}

func (s *Service) emit(event Event) {
	if s.publish != nil {
		s.publish(event)
	}
}
