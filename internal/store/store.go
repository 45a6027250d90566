// Package store implements Perspecto's three persisted documents on top of a kv.Store:
// the project library, the history log and the session snapshot.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Storage keys of the three independent documents.
const (
	ProjectsKey = "perspecto_projects"
	HistoryKey  = "perspecto_history"
	SessionKey  = "perspecto_session"
)

// ErrProjectNotFound is returned by lookups that resolve a project id for the CLI.
// Store mutations signal a missing project with a nil result instead.
var ErrProjectNotFound = errors.New("project not found")

// Option customizes a store.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
}

func defaultOptions() options {
	return options{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// nextStamp returns a millisecond timestamp strictly greater than floor.
func nextStamp(now time.Time, floor int64) int64 {
	ms := now.UnixMilli()
	if ms <= floor {
		return floor + 1
	}
	return ms
}
