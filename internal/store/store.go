// Package store persists small application state as JSON files under the
// user's data directory: tags, custom places and default application
// associations. Each key is one file; writes are atomic via rename.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Store is a file-backed key-value store with an in-memory cache.
// Safe for concurrent use.
type Store struct {
	dir   string
	log   *zap.Logger
	mu    sync.RWMutex
	cache map[string][]byte
}

// Open creates the store directory if needed and returns a Store.
func Open(dir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store dir %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log, cache: make(map[string][]byte)}, nil
}

// Set marshals value and writes it under key.
func (s *Store) Set(key string, value any) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid store key %q", key)
	}
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.cache[key] = data
	s.log.Debug("store set", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Get unmarshals the value under key into out. Missing keys return
// os.ErrNotExist.
func (s *Store) Get(key string, out any) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid store key %q", key)
	}

	s.mu.RLock()
	data, ok := s.cache[key]
	s.mu.RUnlock()

	if !ok {
		var err error
		data, err = os.ReadFile(s.path(key))
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.cache[key] = data
		s.mu.Unlock()
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid store key %q", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, key)
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys present on disk.
func (s *Store) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		keys = append(keys, name[:len(name)-len(".json")])
	}
	return keys, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
