package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const entryExtension = ".json"

// Cache errors.
var (
	ErrNotFound     = errors.New("cache entry not found")
	ErrExpired      = errors.New("cache entry expired")
	ErrEmptySource  = errors.New("cache source cannot be empty")
	ErrDisabled     = errors.New("cache is disabled")
	ErrEmptyDirPath = errors.New("cache directory cannot be empty")
)

// FileStore is a directory of cached source bodies. Safe for concurrent use.
type FileStore struct {
	directory string
	enabled   bool
	ttl       time.Duration
	now       func() time.Time

	mu sync.RWMutex
}

// NewFileStore opens (creating if needed) a cache in directory. A disabled
// store is valid and answers every call with ErrDisabled.
func NewFileStore(directory string, enabled bool, ttl time.Duration) (*FileStore, error) {
	if !enabled {
		return &FileStore{enabled: false, now: time.Now}, nil
	}
	if directory == "" {
		return nil, ErrEmptyDirPath
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileStore{directory: directory, enabled: true, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached entry for source. Expired entries are removed and
// reported as ErrExpired.
func (s *FileStore) Get(source string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if source == "" {
		return nil, ErrEmptySource
	}

	path := s.pathFor(source)

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}

	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if entry.Expired(s.now()) {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return &entry, nil
}

// Put stores body for source, replacing any previous entry.
func (s *FileStore) Put(source string, body []byte) error {
	if !s.enabled {
		return ErrDisabled
	}
	if source == "" {
		return ErrEmptySource
	}

	data, err := json.Marshal(newEntry(source, body, s.ttl, s.now()))
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(source)
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for source. Missing entries are not an error.
func (s *FileStore) Delete(source string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if source == "" {
		return ErrEmptySource
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(source)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *FileStore) Clear() error {
	return s.sweep(func(*Entry) bool { return true })
}

// CleanupExpired removes entries past their expiry. Unreadable files are
// left alone.
func (s *FileStore) CleanupExpired() error {
	now := s.now()
	return s.sweep(func(e *Entry) bool { return e != nil && e.Expired(now) })
}

func (s *FileStore) sweep(remove func(*Entry) bool) error {
	if !s.enabled {
		return ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dirEntries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != entryExtension {
			continue
		}
		path := filepath.Join(s.directory, de.Name())

		var entry *Entry
		if data, readErr := os.ReadFile(path); readErr == nil {
			var e Entry
			if json.Unmarshal(data, &e) == nil {
				entry = &e
			}
		}
		if !remove(entry) {
			continue
		}
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("removing %s: %w", de.Name(), rmErr)
		}
	}
	return nil
}

// Count returns the number of entries on disk, expired ones included.
func (s *FileStore) Count() (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	dirEntries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	n := 0
	for _, de := range dirEntries {
		if !de.IsDir() && filepath.Ext(de.Name()) == entryExtension {
			n++
		}
	}
	return n, nil
}

// Enabled reports whether the store caches anything.
func (s *FileStore) Enabled() bool { return s.enabled }

// Directory returns the cache directory.
func (s *FileStore) Directory() string { return s.directory }

// TTL returns the lifetime given to new entries.
func (s *FileStore) TTL() time.Duration { return s.ttl }

func (s *FileStore) pathFor(source string) string {
	return filepath.Join(s.directory, Key(source)+entryExtension)
}
