package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"playbridge/internal/services"
	"playbridge/internal/services/catalog"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "SID=ok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"signed out"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/account":
			_, _ = w.Write([]byte(`{"accountName":"Listener","channelHandle":"@listener"}`))
		case "/library/playlists":
			_, _ = w.Write([]byte(`[{"playlistId":"PL1","title":"Focus","description":"","thumbnails":[{"url":"http://img/1","width":60,"height":60}],"count":"12"}]`))
		case "/playlists/PL1":
			_, _ = w.Write([]byte(`{"id":"PL1","title":"Focus","privacy":"PRIVATE","trackCount":1,"thumbnails":[],"tracks":[{"videoId":"v1","title":"Song","artists":[{"name":"Artist","id":"A1"}],"likeStatus":"LIKE","duration_seconds":200}]}`))
		case "/playlists/PL404":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClientReadsLibrary(t *testing.T) {
	server := newCatalogServer(t)
	client := catalog.NewClient(server.URL+"/", map[string]string{"cookie": "SID=ok"}, server.Client(), time.Second)
	ctx := context.Background()

	account, err := client.Account(ctx)
	if err != nil || account.Name != "Listener" {
		t.Fatalf("Account = %+v, %v", account, err)
	}

	playlists, err := client.LibraryPlaylists(ctx)
	if err != nil {
		t.Fatalf("LibraryPlaylists: %v", err)
	}
	if len(playlists) != 1 || playlists[0].PlaylistID != "PL1" {
		t.Fatalf("unexpected playlists %+v", playlists)
	}

	details, err := client.Playlist(ctx, "PL1")
	if err != nil {
		t.Fatalf("Playlist: %v", err)
	}
	if len(details.Tracks) != 1 || details.Tracks[0].DurationSeconds != 200 {
		t.Fatalf("unexpected details %+v", details)
	}
}

func TestClientClassifiesFailures(t *testing.T) {
	server := newCatalogServer(t)
	ctx := context.Background()

	signedOut := catalog.NewClient(server.URL, map[string]string{"cookie": "SID=expired"}, server.Client(), time.Second)
	if _, err := signedOut.Account(ctx); !errors.Is(err, services.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	client := catalog.NewClient(server.URL, map[string]string{"cookie": "SID=ok"}, server.Client(), time.Second)
	if _, err := client.Playlist(ctx, "PL404"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := client.Playlist(ctx, "  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := client.Playlist(ctx, "PLX"); !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}
