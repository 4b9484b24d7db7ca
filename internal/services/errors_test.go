package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"playbridge/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalService, "catalog", "list playlists", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"catalog", "list playlists", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrValidation, "rpc", "bind", "bad params", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrUnauthenticated, "musicapi", "get_playlists", "", nil), http.StatusUnauthorized},
		{services.Wrap(services.ErrNotFound, "catalog", "playlist", "PL1", nil), http.StatusNotFound},
		{services.Wrap(services.ErrExternalService, "catalog", "fetch", "", errors.New("502")), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
