// Package app provides the application state controller. CLI and MCP handlers
// are thin adapters over Controller: every user action is one method call, and
// the controller owns the in-memory state, the stores, and the session snapshot.
package app

import (
	"errors"

	"github.com/josephgoksu/perspecto/internal/auth"
	"github.com/josephgoksu/perspecto/internal/generator"
	"github.com/josephgoksu/perspecto/internal/kv"
	"github.com/josephgoksu/perspecto/internal/store"
)

// Context holds shared dependencies for the controller.
type Context struct {
	Projects  *store.ProjectStore
	History   *store.HistoryStore
	Session   *store.SessionStore
	Generator generator.Generator
	Auth      auth.Authenticator
}

// NewContext wires the three stores over one kv backend.
// Store options (clock, id generator) apply to projects and history alike.
func NewContext(kvs kv.Store, gen generator.Generator, authn auth.Authenticator, opts ...store.Option) *Context {
	if authn == nil {
		authn = auth.NoAuth{}
	}
	return &Context{
		Projects:  store.NewProjectStore(kvs, opts...),
		History:   store.NewHistoryStore(kvs, opts...),
		Session:   store.NewSessionStore(kvs),
		Generator: gen,
		Auth:      authn,
	}
}

var (
	// ErrNotAuthenticated is returned by workspace actions while nobody is signed in.
	ErrNotAuthenticated = errors.New("not signed in")
	// ErrNoInput means there is no current input context or result to act on.
	ErrNoInput = errors.New("nothing to act on: generate an artifact first")
	// ErrNoPersona means the current result has no persona to edit.
	ErrNoPersona = errors.New("current result has no persona")
	// ErrNoActiveProject means the action needs an open project.
	ErrNoActiveProject = errors.New("no project is open")
	// ErrNoActiveItem means the action needs an open saved artifact.
	ErrNoActiveItem = errors.New("no saved artifact is open")
	// ErrItemNotFound means an item id did not match the open project.
	ErrItemNotFound = errors.New("artifact not found")
	// ErrNoPendingSave means there is no standalone result waiting for a project.
	ErrNoPendingSave = errors.New("no unsaved standalone artifact is waiting for a project")
	// ErrNotOrphan means the current result is not a JTBD set without a persona.
	ErrNotOrphan = errors.New("current result is not a JTBD set without a persona")
	// ErrStaleRequest means a generation finished after the user moved on; its result was discarded.
	ErrStaleRequest = errors.New("generation result discarded: request superseded")
	// ErrInvalidView means the view cannot be entered directly from the current state.
	ErrInvalidView = errors.New("view not reachable from current state")
)
