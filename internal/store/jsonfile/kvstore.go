// Package jsonfile provides a JSON file-backed key-value store for device-local state.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hay-kot/textsnap/internal/core/kv"
)

// KVFile is the root JSON structure stored on disk.
type KVFile struct {
	Entries map[string]kv.Entry `json:"entries"`
}

// KVStore implements kv.Store using a JSON file for persistence.
//
// Every write rewrites the whole file through a temp file and rename, under an
// exclusive flock so a second textsnap process cannot interleave writes.
type KVStore struct {
	path string
	mu   sync.RWMutex
	now  func() time.Time
}

// NewKVStore creates a new JSON file KV store at the given path.
func NewKVStore(path string) *KVStore {
	return &KVStore{path: path, now: time.Now}
}

// Path returns the backing file path.
func (s *KVStore) Path() string {
	return s.path
}

func (s *KVStore) lockPath() string {
	return s.path + ".lock"
}

func (s *KVStore) withSharedLock(fn func() error) error {
	return s.withFileLock(syscall.LOCK_SH, fn)
}

func (s *KVStore) withExclusiveLock(fn func() error) error {
	return s.withFileLock(syscall.LOCK_EX, fn)
}

// withFileLock acquires a file lock, executes fn, then releases the lock.
func (s *KVStore) withFileLock(lockType int, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := syscall.Flock(int(f.Fd()), lockType); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN) //nolint:errcheck

	return fn()
}

// Get returns an entry by key. Returns kv.ErrKeyNotFound if not found.
func (s *KVStore) Get(ctx context.Context, key string) (kv.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		entry kv.Entry
		found bool
	)

	err := s.withSharedLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		entry, found = file.Entries[key]
		return nil
	})
	if err != nil {
		return kv.Entry{}, err
	}

	if !found {
		return kv.Entry{}, kv.ErrKeyNotFound
	}

	return entry, nil
}

// Set creates or updates an entry. CreatedAt is preserved across updates.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withExclusiveLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		now := s.now()
		entry, exists := file.Entries[key]
		if exists {
			entry.Value = value
			entry.UpdatedAt = now
		} else {
			entry = kv.Entry{
				Key:       key,
				Value:     value,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}

		file.Entries[key] = entry
		return s.save(file)
	})
}

// Delete removes an entry by key. Returns kv.ErrKeyNotFound if not found.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notFound bool

	err := s.withExclusiveLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		if _, ok := file.Entries[key]; !ok {
			notFound = true
			return nil
		}

		delete(file.Entries, key)
		return s.save(file)
	})
	if err != nil {
		return err
	}

	if notFound {
		return kv.ErrKeyNotFound
	}

	return nil
}

// List returns all entries matching the prefix, sorted by key.
func (s *KVStore) List(ctx context.Context, prefix string) ([]kv.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []kv.Entry

	err := s.withSharedLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		for _, entry := range file.Entries {
			if prefix == "" || strings.HasPrefix(entry.Key, prefix) {
				entries = append(entries, entry)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries, nil
}

// load reads the KV file from disk.
// Returns an empty KVFile if the file doesn't exist.
func (s *KVStore) load() (KVFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return KVFile{Entries: make(map[string]kv.Entry)}, nil
		}
		return KVFile{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return KVFile{Entries: make(map[string]kv.Entry)}, nil
	}

	var file KVFile
	if err := json.Unmarshal(data, &file); err != nil {
		return KVFile{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	if file.Entries == nil {
		file.Entries = make(map[string]kv.Entry)
	}

	return file, nil
}

// save writes the KV file to disk atomically.
func (s *KVStore) save(file KVFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp) // best effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
