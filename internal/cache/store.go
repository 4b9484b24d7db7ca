package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a key/value cache with per-entry expiry backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database file location.
func (s *Store) Path() string { return s.path }

// SetClock overrides the time source used for expiry checks.
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Get returns the raw value for key. Expired entries are reported as missing.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE key = ? AND expires_at > ?`,
		key, s.now().UnixNano(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cache entry %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key for ttl, replacing any existing entry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("set cache entry %q: ttl must be positive", key)
	}
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, stored_at, expires_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, stored_at = excluded.stored_at, expires_at = excluded.expires_at`,
		key, value, now.UTC().Format(time.RFC3339Nano), now.Add(ttl).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("set cache entry %q: %w", key, err)
	}
	return nil
}

// GetJSON decodes the cached value for key into out.
func (s *Store) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode cache entry %q: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value and stores it under key.
func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}
	return s.Set(ctx, key, data, ttl)
}

// Delete removes key in one statement and reports whether the removed
// entry was live. Expired rows for the key go too.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM cache_entries WHERE key = ? RETURNING expires_at`, key,
	).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete cache entry %q: %w", key, err)
	}
	return expiresAt > s.now().UnixNano(), nil
}

// Count returns the number of live entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM cache_entries WHERE expires_at > ?`, s.now().UnixNano(),
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return n, nil
}

// Clear removes every entry and returns how many were live.
func (s *Store) Clear(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin clear tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var live int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM cache_entries WHERE expires_at > ?`, s.now().UnixNano(),
	).Scan(&live); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit clear: %w", err)
	}
	return live, nil
}

// PurgeExpired drops entries whose TTL has elapsed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE expires_at <= ?`, s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purge expired entries: %w", err)
	}
	return res.RowsAffected()
}
