package kv

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const (
	documentExt    = ".json"
	checksumSuffix = ".checksum"
	lockSuffix     = ".lock"
	tempSuffix     = ".tmp"
)

// FileStore keeps one JSON file per key in a directory.
// Writes go through a temp file and rename, with a SHA256 sidecar verified on read.
// On the OS filesystem every operation also holds an advisory flock so separate
// processes cannot interleave a read-modify-write.
type FileStore struct {
	fs     afero.Fs
	dir    string
	osBack bool
	mu     sync.Mutex
}

// NewFileStore creates a store rooted at dir on the given filesystem.
func NewFileStore(fsys afero.Fs, dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("kv: data directory is required")
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	_, osBack := fsys.(*afero.OsFs)
	return &FileStore{fs: fsys, dir: dir, osBack: osBack}, nil
}

// NewOSFileStore creates a FileStore on the real filesystem.
func NewOSFileStore(dir string) (*FileStore, error) {
	return NewFileStore(afero.NewOsFs(), dir)
}

// Dir returns the directory holding the documents.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+documentExt)
}

func calculateChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// lock takes the in-process mutex and, on the OS filesystem, the per-key file lock.
func (s *FileStore) lock(key string) (func(), error) {
	s.mu.Lock()
	if !s.osBack {
		return s.mu.Unlock, nil
	}
	flk := flock.New(s.path(key) + lockSuffix)
	if err := flk.Lock(); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return func() {
		_ = flk.Unlock()
		s.mu.Unlock()
	}, nil
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	unlock, err := s.lock(key)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.read(key)
}

func (s *FileStore) read(key string) ([]byte, error) {
	p := s.path(key)
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	// A missing sidecar means the file predates checksums or was written by hand; accept it.
	expected, err := afero.ReadFile(s.fs, p+checksumSuffix)
	if err == nil {
		if actual := calculateChecksum(data); strings.TrimSpace(string(expected)) != actual {
			return nil, fmt.Errorf("checksum mismatch for %s: file is corrupt or was modified outside perspecto", p)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read checksum for %s: %w", p, err)
	}
	return data, nil
}

func (s *FileStore) write(key string, value []byte) error {
	p := s.path(key)
	tmp := p + tempSuffix
	sum := p + checksumSuffix
	tmpSum := sum + tempSuffix
	defer func() { _ = s.fs.Remove(tmp) }()
	defer func() { _ = s.fs.Remove(tmpSum) }()

	if err := afero.WriteFile(s.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := afero.WriteFile(s.fs, tmpSum, []byte(calculateChecksum(value)), 0o644); err != nil {
		return fmt.Errorf("write checksum for %s: %w", p, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	// The data is in place; a failed sidecar rename leaves the old checksum, which read rejects.
	if err := s.fs.Rename(tmpSum, sum); err != nil {
		return fmt.Errorf("rename checksum for %s: %w", p, err)
	}
	return nil
}

// Set implements Store.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()
	return s.write(key, value)
}

// Update implements Store.
func (s *FileStore) Update(_ context.Context, key string, fn func([]byte) ([]byte, error)) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.read(key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	next, err := fn(current)
	if err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	return s.write(key, next)
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()

	for _, p := range []string{s.path(key), s.path(key) + checksumSuffix} {
		if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

// Watch implements Watcher. It only works on the OS filesystem.
func (s *FileStore) Watch(ctx context.Context) (<-chan string, error) {
	if !s.osBack {
		return nil, ErrWatchUnsupported
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	keys := make(chan string, 16)
	go func() {
		defer close(keys)
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				key, ok := keyFromEvent(event)
				if !ok {
					continue
				}
				select {
				case keys <- key:
				case <-ctx.Done():
					return
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return keys, nil
}

// keyFromEvent maps a filesystem event to the document key it touched.
// Temp files, sidecars and locks are ignored; a rename into place shows up as Create.
func keyFromEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	base := filepath.Base(event.Name)
	if !strings.HasSuffix(base, documentExt) {
		return "", false
	}
	key := strings.TrimSuffix(base, documentExt)
	return key, ValidateKey(key) == nil
}
