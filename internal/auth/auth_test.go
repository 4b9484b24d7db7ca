package auth_test

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"playbridge/internal/auth"
)

const chromeHeaders = `POST /youtubei/v1/browse?prettyPrint=false HTTP/1.1
Host: music.youtube.com
Content-Length: 2048
Accept-Encoding: gzip, deflate, br
Authorization: SAPISIDHASH 1700000000_abc
Cookie: SID=abc; HSID=def; SAPISID=ghi
Sec-Fetch-Mode: same-origin
X-Goog-AuthUser: 0
X-Origin: https://music.youtube.com
`

func TestParseRawNormalizesHeaders(t *testing.T) {
	headers, err := auth.ParseRaw(chromeHeaders)
	if err != nil {
		t.Fatalf("ParseRaw: %v", err)
	}
	if headers["cookie"] != "SID=abc; HSID=def; SAPISID=ghi" {
		t.Fatalf("unexpected cookie %q", headers["cookie"])
	}
	if headers["x-goog-authuser"] != "0" {
		t.Fatalf("unexpected authuser %q", headers["x-goog-authuser"])
	}
	if headers["x-origin"] != "https://music.youtube.com" {
		t.Fatalf("value containing colon was truncated: %q", headers["x-origin"])
	}
	for _, dropped := range []string{"host", "content-length", "accept-encoding", "sec-fetch-mode"} {
		if _, ok := headers[dropped]; ok {
			t.Fatalf("expected %s to be dropped", dropped)
		}
	}
}

func TestParseRawAcceptsTwoLineLayout(t *testing.T) {
	raw := ":authority:\nmusic.youtube.com\ncookie:\nSID=xyz\nx-goog-authuser:\n1\n"
	headers, err := auth.ParseRaw(raw)
	if err != nil {
		t.Fatalf("ParseRaw: %v", err)
	}
	if headers["cookie"] != "SID=xyz" || headers["x-goog-authuser"] != "1" {
		t.Fatalf("unexpected headers %v", headers)
	}
}

func TestParseRawReportsMissingHeaders(t *testing.T) {
	_, err := auth.ParseRaw("Accept: */*\nCookie: SID=1\n")
	if !errors.Is(err, auth.ErrMissingHeaders) {
		t.Fatalf("expected ErrMissingHeaders, got %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "headers_auth.json")
	store := auth.NewFileStore(path)

	if _, err := store.Load(); !errors.Is(err, auth.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials before save, got %v", err)
	}
	if store.Exists() {
		t.Fatal("store should not exist yet")
	}

	saved, err := store.SaveRaw(chromeHeaders)
	if err != nil {
		t.Fatalf("SaveRaw: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat credentials: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != len(saved) || loaded["cookie"] != saved["cookie"] {
		t.Fatalf("round trip mismatch: %v vs %v", loaded, saved)
	}
}

func TestApplySetsHeaders(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://example.test", nil)
	auth.Apply(req, map[string]string{"cookie": "SID=1", "x-goog-authuser": "0"})
	if req.Header.Get("Cookie") != "SID=1" || req.Header.Get("X-Goog-Authuser") != "0" {
		t.Fatalf("headers not applied: %v", req.Header)
	}
}
