package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoCredentials indicates the credential file has not been written yet.
var ErrNoCredentials = errors.New("credentials not configured")

// FileStore persists parsed request headers as a JSON object on disk.
type FileStore struct {
	path string
}

// NewFileStore builds a FileStore rooted at the provided path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path reports where credentials are stored.
func (s *FileStore) Path() string { return s.path }

// Exists reports whether a credential file is present.
func (s *FileStore) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Load reads stored headers. A missing file yields ErrNoCredentials.
func (s *FileStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found, run 'playbridge auth'", ErrNoCredentials, s.path)
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var headers map[string]string
	if err := json.Unmarshal(data, &headers); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return headers, nil
}

// Save writes headers with owner-only permissions.
func (s *FileStore) Save(headers map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("ensure credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(headers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

// SaveRaw parses raw request headers and persists the result.
func (s *FileStore) SaveRaw(raw string) (map[string]string, error) {
	headers, err := ParseRaw(raw)
	if err != nil {
		return nil, err
	}
	if err := s.Save(headers); err != nil {
		return nil, err
	}
	return headers, nil
}
