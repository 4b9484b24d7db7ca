package testsupport

import (
	"testing"

	"playbridge/internal/cache"
	"playbridge/internal/config"
)

// MustOpenCache opens the playlist cache for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *cache.Store {
	t.Helper()

	store, err := cache.Open(cfg.CachePath())
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
