package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"playbridge/internal/auth"
	"playbridge/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllSkipsCatalogWithoutCredentials(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %+v", results)
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Credentials" {
		t.Fatalf("expected only credentials to fail, got %+v", failed)
	}
}

func TestCheckCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "SID=good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"accountName":"Listener"}`))
	}))
	defer srv.Close()

	cases := []struct {
		name   string
		cookie string
		passed bool
	}{
		{"accepted", "SID=good", true},
		{"rejected", "SID=bad", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithCatalogURL(srv.URL))
			store := auth.NewFileStore(cfg.Paths.AuthFile)
			if err := store.Save(map[string]string{"cookie": tc.cookie, "x-goog-authuser": "0"}); err != nil {
				t.Fatalf("Save: %v", err)
			}
			result := CheckCatalog(context.Background(), cfg)
			if result.Passed != tc.passed {
				t.Fatalf("expected passed=%v, got %+v", tc.passed, result)
			}
		})
	}
}
