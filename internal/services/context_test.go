package services_test

import (
	"context"
	"testing"

	"playbridge/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithMethod(ctx, "get_playlists")
	ctx = services.WithPlaylistID(ctx, "PL1")
	ctx = services.WithRequestID(ctx, "req-123")

	if method, ok := services.MethodFromContext(ctx); !ok || method != "get_playlists" {
		t.Fatalf("unexpected method: %v %v", method, ok)
	}
	if id, ok := services.PlaylistIDFromContext(ctx); !ok || id != "PL1" {
		t.Fatalf("unexpected playlist id: %v %v", id, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithMethod(ctx, "")
	ctx = services.WithPlaylistID(ctx, "")
	if _, ok := services.MethodFromContext(ctx); ok {
		t.Fatal("expected no method value")
	}
	if _, ok := services.PlaylistIDFromContext(ctx); ok {
		t.Fatal("expected no playlist value")
	}
}
