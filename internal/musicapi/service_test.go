package musicapi_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"playbridge/internal/bridge"
	"playbridge/internal/musicapi"
	"playbridge/internal/playlist"
	"playbridge/internal/services"
	"playbridge/internal/services/catalog"
	"playbridge/internal/testsupport"
)

const rawHeaders = "cookie: SID=ok\nx-goog-authuser: 0\nuser-agent: test"

type fakeCatalog struct {
	mu        sync.Mutex
	headers   map[string]string
	fetches   int
	denyCalls bool
}

func (f *fakeCatalog) Account(context.Context) (*catalog.Account, error) {
	if f.denyCalls {
		return nil, services.Wrap(services.ErrUnauthenticated, "catalog", "account", "returned 401", nil)
	}
	return &catalog.Account{Name: "Listener"}, nil
}

func (f *fakeCatalog) LibraryPlaylists(context.Context) ([]playlist.Summary, error) {
	return []playlist.Summary{{PlaylistID: "PL1", Title: "Focus"}}, nil
}

func (f *fakeCatalog) Playlist(_ context.Context, id string) (*playlist.Details, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
	return &playlist.Details{
		ID:    id,
		Title: "Playlist " + id,
		Thumbnails: []playlist.Thumbnail{
			{URL: "http://img/small", Width: 60},
			{URL: "http://img/large", Width: 544},
			{URL: "http://img/medium", Width: 226},
		},
		Tracks: []playlist.Track{{VideoID: "v1", Title: "Song"}},
	}, nil
}

func (f *fakeCatalog) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type fakeColors struct {
	requested []string
	fail      bool
}

func (f *fakeColors) DominantHex(_ context.Context, url string) (string, error) {
	f.requested = append(f.requested, url)
	if f.fail {
		return "", errors.New("decode failed")
	}
	return "#e61414", nil
}

type fixture struct {
	svc     *musicapi.Service
	catalog *fakeCatalog
	colors  *fakeColors
	events  []musicapi.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCache(t, cfg)
	f := &fixture{catalog: &fakeCatalog{}, colors: &fakeColors{}}
	svc, err := musicapi.New(cfg, store, nil,
		musicapi.WithCatalogFactory(func(headers map[string]string) musicapi.Catalog {
			f.catalog.headers = headers
			return f.catalog
		}),
		musicapi.WithColorSource(f.colors),
		musicapi.WithEvents(func(e musicapi.Event) { f.events = append(f.events, e) }),
	)
	if err != nil {
		t.Fatalf("musicapi.New: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) authenticate(t *testing.T) {
	t.Helper()
	if err := f.svc.GenerateAuthHeader(context.Background(), rawHeaders); err != nil {
		t.Fatalf("GenerateAuthHeader: %v", err)
	}
}

func TestGetPlaylistsRequiresCredentials(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetPlaylists(context.Background())
	if !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	f.authenticate(t)
	playlists, err := f.svc.GetPlaylists(context.Background())
	if err != nil || len(playlists) != 1 {
		t.Fatalf("GetPlaylists = %v, %v", playlists, err)
	}
	if f.catalog.headers["cookie"] != "SID=ok" {
		t.Fatalf("catalog built with headers %v", f.catalog.headers)
	}
}

func TestGetPlaylistItemsCachesAndColors(t *testing.T) {
	f := newFixture(t)
	f.authenticate(t)
	ctx := context.Background()

	first, err := f.svc.GetPlaylistItems(ctx, "PL1", false)
	if err != nil {
		t.Fatalf("GetPlaylistItems: %v", err)
	}
	if first.DominantColor == nil || *first.DominantColor != "#e61414" {
		t.Fatalf("unexpected dominant color %v", first.DominantColor)
	}
	if len(f.colors.requested) != 1 || f.colors.requested[0] != "http://img/large" {
		t.Fatalf("color taken from %v, want largest thumbnail", f.colors.requested)
	}

	second, err := f.svc.GetPlaylistItems(ctx, "PL1", false)
	if err != nil {
		t.Fatalf("cached GetPlaylistItems: %v", err)
	}
	if f.catalog.fetchCount() != 1 || second.Title != first.Title {
		t.Fatalf("expected cached result, fetches=%d", f.catalog.fetchCount())
	}

	if _, err := f.svc.GetPlaylistItems(ctx, "PL1", true); err != nil {
		t.Fatalf("forced GetPlaylistItems: %v", err)
	}
	if f.catalog.fetchCount() != 2 {
		t.Fatalf("force refresh did not refetch, fetches=%d", f.catalog.fetchCount())
	}
}

func TestColorFailureLeavesColorUnset(t *testing.T) {
	f := newFixture(t)
	f.colors.fail = true
	f.authenticate(t)

	details, err := f.svc.GetPlaylistItems(context.Background(), "PL7", false)
	if err != nil {
		t.Fatalf("GetPlaylistItems: %v", err)
	}
	if details.DominantColor != nil {
		t.Fatalf("expected nil color, got %q", *details.DominantColor)
	}
}

func TestInvalidateReportsPresentAndMissing(t *testing.T) {
	f := newFixture(t)
	f.authenticate(t)
	ctx := context.Background()

	if _, err := f.svc.GetPlaylistItems(ctx, "A", false); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	report, err := f.svc.InvalidatePlaylistCache(ctx, []string{"A", "B"})
	if err != nil {
		t.Fatalf("InvalidatePlaylistCache: %v", err)
	}
	if len(report.Invalidated) != 1 || report.Invalidated[0] != "A" {
		t.Fatalf("unexpected invalidated %v", report.Invalidated)
	}
	if len(report.NotFound) != 1 || report.NotFound[0] != "B" {
		t.Fatalf("unexpected not_found %v", report.NotFound)
	}

	var sawInvalidation bool
	for _, e := range f.events {
		if e.Type == musicapi.EventCacheInvalidated {
			sawInvalidation = true
		}
	}
	if !sawInvalidation {
		t.Fatalf("expected cache_invalidated event, got %+v", f.events)
	}
}

func TestClearAllCacheIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.authenticate(t)
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		if _, err := f.svc.GetPlaylistItems(ctx, id, false); err != nil {
			t.Fatalf("prime %s: %v", id, err)
		}
	}
	first, err := f.svc.ClearAllCache(ctx)
	if err != nil || first.Cleared != 3 {
		t.Fatalf("first clear = %+v, %v", first, err)
	}
	second, err := f.svc.ClearAllCache(ctx)
	if err != nil || second.Cleared != 0 {
		t.Fatalf("second clear = %+v, %v", second, err)
	}
}

func TestSurfaceThroughDispatcher(t *testing.T) {
	f := newFixture(t)
	host := bridge.NewHost()
	host.Install(f.svc.Surface())
	client := bridge.NewClient(bridge.NewDispatcher(host))
	ctx := context.Background()

	res := client.GetPlaylists(ctx)
	info := res.Error()
	if info == nil || info.Kind != bridge.KindCallFailed || !strings.Contains(info.Message, "not authenticated") {
		t.Fatalf("expected CALL_FAILED for missing credentials, got %+v", info)
	}

	if res := client.GenerateAuthHeader(ctx, rawHeaders); !res.OK() {
		t.Fatalf("GenerateAuthHeader: %+v", res.Error())
	}
	details, err := bridge.Unwrap(client.GetPlaylistItems(ctx, "PL1", false))
	if err != nil || details.ID != "PL1" || details.DominantColor == nil {
		t.Fatalf("GetPlaylistItems = %+v, %v", details, err)
	}
	report, err := bridge.Unwrap(client.InvalidatePlaylistCache(ctx, []string{"PL1", "PL2"}))
	if err != nil || len(report.Invalidated) != 1 || len(report.NotFound) != 1 {
		t.Fatalf("InvalidatePlaylistCache = %+v, %v", report, err)
	}
	cleared, err := bridge.Unwrap(client.ClearAllCache(ctx))
	if err != nil || cleared.Cleared != 0 {
		t.Fatalf("ClearAllCache = %+v, %v", cleared, err)
	}
}

func TestRejectedCredentialsAreNotRetained(t *testing.T) {
	f := newFixture(t)
	f.catalog.denyCalls = true
	f.authenticate(t)

	if _, err := f.svc.GetPlaylists(context.Background()); !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	f.catalog.denyCalls = false
	if _, err := f.svc.GetPlaylists(context.Background()); err != nil {
		t.Fatalf("expected retry with same credentials to succeed, got %v", err)
	}
}
