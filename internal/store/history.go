package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/josephgoksu/perspecto/internal/kv"
	"github.com/josephgoksu/perspecto/internal/util"
	"github.com/josephgoksu/perspecto/models"
)

// HistoryStore persists the history log, newest entry first. It has no size cap.
type HistoryStore struct {
	kv   kv.Store
	opts options
}

// NewHistoryStore creates a HistoryStore over kvs.
func NewHistoryStore(kvs kv.Store, opts ...Option) *HistoryStore {
	return &HistoryStore{kv: kvs, opts: buildOptions(opts)}
}

func decodeHistory(data []byte) ([]models.HistoryItem, error) {
	if len(data) == 0 {
		return []models.HistoryItem{}, nil
	}
	var items []models.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", HistoryKey, err)
	}
	if items == nil {
		items = []models.HistoryItem{}
	}
	return items, nil
}

// All returns every entry, newest first.
func (s *HistoryStore) All(ctx context.Context) ([]models.HistoryItem, error) {
	data, err := s.kv.Get(ctx, HistoryKey)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return nil, err
	}
	return decodeHistory(data)
}

// Append prepends entry, filling in id and timestamp when they are zero.
func (s *HistoryStore) Append(ctx context.Context, entry models.HistoryItem) (models.HistoryItem, error) {
	entry.Result = entry.Result.Clone()
	err := s.kv.Update(ctx, HistoryKey, func(current []byte) ([]byte, error) {
		items, err := decodeHistory(current)
		if err != nil {
			return nil, err
		}
		if entry.ID == "" {
			entry.ID = s.opts.newID()
		}
		if entry.Timestamp == 0 {
			var floor int64
			if len(items) > 0 {
				floor = items[0].Timestamp
			}
			entry.Timestamp = nextStamp(s.opts.now(), floor)
		}
		return json.Marshal(append([]models.HistoryItem{entry}, items...))
	})
	if err != nil {
		return models.HistoryItem{}, err
	}
	return entry, nil
}

// Clear discards every entry. Projects are never touched.
func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.kv.Set(ctx, HistoryKey, []byte("[]"))
}

// Find returns the entry with the given id or unique id prefix.
func (s *HistoryStore) Find(ctx context.Context, ref string) (*models.HistoryItem, error) {
	items, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	id, err := util.ResolveID(ref, ids)
	if err != nil {
		return nil, fmt.Errorf("history entry: %w", err)
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}
