// Package kv provides the local key-value medium that holds Perspecto's JSON documents.
// Each key maps to one whole document; callers read-modify-write the full value.
package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

var (
	// ErrNotFound is returned by Get when the key holds no document.
	ErrNotFound = errors.New("kv: key not found")

	// ErrNoChange may be returned from an Update callback to leave the stored value untouched.
	ErrNoChange = errors.New("kv: no change")

	// ErrWatchUnsupported is returned by Watch on backends that cannot observe external writes.
	ErrWatchUnsupported = errors.New("kv: watch not supported by this backend")
)

// Store is a synchronous document store.
type Store interface {
	// Get returns the document under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the document under key.
	Set(ctx context.Context, key string, value []byte) error

	// Update runs fn with the current document (nil when absent) and stores its result.
	// The read and the write happen under one lock or transaction.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Watcher is implemented by stores that can report writes made by other processes.
type Watcher interface {
	// Watch emits the key of every document written until ctx is cancelled.
	Watch(ctx context.Context) (<-chan string, error)
}

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateKey rejects keys that could escape a file backend's directory.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}

// Options selects and configures a backend.
type Options struct {
	Backend   string
	Dir       string
	RedisAddr string
	RedisDB   int
	Prefix    string
}

// Open constructs the backend named in opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewOSFileStore(opts.Dir)
	case BackendSQLite:
		return NewSQLiteStore(opts.Dir)
	case BackendRedis:
		return DialRedis(ctx, opts.RedisAddr, opts.RedisDB, opts.Prefix)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: file, sqlite, redis)", opts.Backend)
	}
}
