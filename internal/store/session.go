package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/josephgoksu/perspecto/internal/kv"
	"github.com/josephgoksu/perspecto/models"
)

// SessionStore holds the single session snapshot. Each Save overwrites it wholesale.
type SessionStore struct {
	kv kv.Store
}

// NewSessionStore creates a SessionStore over kvs.
func NewSessionStore(kvs kv.Store) *SessionStore {
	return &SessionStore{kv: kvs}
}

// Save overwrites the snapshot.
func (s *SessionStore) Save(ctx context.Context, session models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.kv.Set(ctx, SessionKey, data)
}

// Load returns the saved snapshot, or nil when there is none.
// An unreadable snapshot is logged and treated as absent so a bad file never blocks startup.
func (s *SessionStore) Load(ctx context.Context) (*models.Session, error) {
	data, err := s.kv.Get(ctx, SessionKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		slog.Warn("discarding unreadable session snapshot", "error", err)
		return nil, nil
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		slog.Warn("discarding unreadable session snapshot", "error", err)
		return nil, nil
	}
	if _, err := models.ParseView(string(session.View)); err != nil {
		slog.Warn("discarding session snapshot with unknown view", "view", session.View)
		return nil, nil
	}
	return &session, nil
}

// Clear removes the snapshot.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, SessionKey)
}
