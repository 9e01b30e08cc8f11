package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// FileKV implements KV as one JSON file, locked across processes so two CLI
// invocations never interleave writes. Values are stored compacted.
type FileKV struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
	now  func() time.Time
}

type fileEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
}

func NewFileKV(path string) *FileKV {
	return &FileKV{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  time.Now,
	}
}

func (s *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	entry, ok := entries[key]
	if !ok || (entry.ExpiresAt != nil && !s.now().Before(*entry.ExpiresAt)) {
		return nil, ErrNotFound
	}
	return entry.Value, nil
}

func (s *FileKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var compact bytes.Buffer
	if err := json.Compact(&compact, value); err != nil {
		return fmt.Errorf("set %s: value is not JSON: %w", key, err)
	}
	return s.update(ctx, func(entries map[string]fileEntry) {
		entry := fileEntry{Value: json.RawMessage(compact.Bytes())}
		if ttl > 0 {
			expiresAt := s.now().Add(ttl)
			entry.ExpiresAt = &expiresAt
		}
		entries[key] = entry
	})
}

func (s *FileKV) Delete(ctx context.Context, key string) error {
	return s.update(ctx, func(entries map[string]fileEntry) {
		delete(entries, key)
	})
}

func (s *FileKV) update(ctx context.Context, change func(map[string]fileEntry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	change(entries)
	return s.save(entries)
}

func (s *FileKV) acquire(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	locked, err := s.lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, errors.New("could not acquire file lock")
	}
	return func() { _ = s.lock.Unlock() }, nil
}

func (s *FileKV) load() (map[string]fileEntry, error) {
	entries := map[string]fileEntry{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return entries, nil
}

func (s *FileKV) save(entries map[string]fileEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal state file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename state file: %w", err)
	}
	return nil
}
