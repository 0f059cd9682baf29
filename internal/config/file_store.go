package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/ajramos/themesync/internal/theme"
)

// FileStore is a settings store persisted as a TOML file with one table per
// section. Every mutation rewrites the file atomically (temp file + rename).
// The store is not ready until Load succeeds.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	data  map[string]map[string]any
	ready bool
}

// NewFileStore creates a file store for path; call Load before use
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, data: make(map[string]map[string]any)}
}

// Load reads the file. A missing file is an empty, ready store.
func (s *FileStore) Load(ctx context.Context) error {
	if s.path == "" {
		return fmt.Errorf("empty settings file path")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw := make(map[string]any)
	if _, err := toml.DecodeFile(s.path, &raw); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	data := make(map[string]map[string]any, len(raw))
	for section, v := range raw {
		table, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("section '%s' is not a table", section)
		}
		entries := make(map[string]any, len(table))
		for k, val := range table {
			entries[k] = fromTOML(val)
		}
		data[section] = entries
	}

	s.mu.Lock()
	s.data = data
	s.ready = true
	s.mu.Unlock()
	return nil
}

// IsReady reports whether the store has been loaded
func (s *FileStore) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Get returns the value stored under section/key
func (s *FileStore) Get(ctx context.Context, section, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil, false, theme.ErrConfigUnavailable
	}
	v, ok := s.data[section][key]
	return v, ok, nil
}

// Keys lists the keys of a section, sorted
func (s *FileStore) Keys(ctx context.Context, section string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil, theme.ErrConfigUnavailable
	}
	keys := make([]string, 0, len(s.data[section]))
	for k := range s.data[section] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Set stores value under section/key and persists the file
func (s *FileStore) Set(ctx context.Context, section, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return theme.ErrConfigUnavailable
	}

	table, ok := s.data[section]
	if !ok {
		table = make(map[string]any)
		s.data[section] = table
	}
	prev, had := table[key]
	table[key] = value

	if err := s.save(); err != nil {
		if had {
			table[key] = prev
		} else {
			delete(table, key)
		}
		return fmt.Errorf("failed to set '%s/%s': %w", section, key, err)
	}
	return nil
}

// Remove deletes section/key; removing an absent key is not an error
func (s *FileStore) Remove(ctx context.Context, section, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return theme.ErrConfigUnavailable
	}

	table := s.data[section]
	prev, had := table[key]
	if !had {
		return nil
	}
	delete(table, key)

	if err := s.save(); err != nil {
		table[key] = prev
		return fmt.Errorf("failed to remove '%s/%s': %w", section, key, err)
	}
	return nil
}

// save writes the whole store; callers hold the lock
func (s *FileStore) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".themesync-settings-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := toml.NewEncoder(tmpFile).Encode(s.data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("atomic rename: %w", err)
	}

	return nil
}

// fromTOML converts decoded arrays of strings back into []string
func fromTOML(v any) any {
	arr, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		str, ok := item.(string)
		if !ok {
			return v
		}
		out = append(out, str)
	}
	return out
}
