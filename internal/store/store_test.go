package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/perspecto/internal/kv"
	"github.com/josephgoksu/perspecto/models"
)

// frozenClock always returns the same instant so monotonic stamping is exercised.
func frozenClock() func() time.Time {
	t := time.UnixMilli(1_700_000_000_000)
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%03d", prefix, n)
	}
}

func newKV(t *testing.T) kv.Store {
	t.Helper()
	s, err := kv.NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	return s
}

func newProjectStore(t *testing.T) (*ProjectStore, kv.Store) {
	t.Helper()
	kvs := newKV(t)
	return NewProjectStore(kvs, WithClock(frozenClock()), WithIDGenerator(sequentialIDs("id"))), kvs
}

func alex() *models.PersonaData {
	return &models.PersonaData{
		Name:  "Alex Rivera",
		Role:  "Freelance Graphic Designer",
		Goals: []string{"Win more clients"},
		Needs: []string{"Fast invoicing"},
		Pains: []string{"Late payments"},
		Tasks: []string{"Send invoices"},
	}
}

func threeJTBD() []models.JTBDData {
	return []models.JTBDData{
		{Situation: "When I finish a project", Motivation: "I want to invoice quickly", Outcome: "so I can get paid"},
		{Situation: "When a client is late", Motivation: "I want a reminder", Outcome: "so I can stay calm"},
		{Situation: "When taxes are due", Motivation: "I want totals", Outcome: "so I can file on time"},
	}
}

func TestProjectStore_EmptyLibrary(t *testing.T) {
	ps, _ := newProjectStore(t)
	projects, err := ps.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.NotNil(t, projects)
}

func TestProjectStore_CreatePrependsAndStamps(t *testing.T) {
	ctx := context.Background()
	ps, kvs := newProjectStore(t)

	a, err := ps.Create(ctx, "Banking App", "")
	require.NoError(t, err)
	b, err := ps.Create(ctx, "Travel App", "data:image/png;base64,AAAA")
	require.NoError(t, err)

	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
	assert.Greater(t, b.CreatedAt, a.CreatedAt)
	assert.NotEqual(t, a.ID, b.ID)

	raw, err := kvs.Get(ctx, ProjectsKey)
	require.NoError(t, err)
	var stored []models.Project
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, b.ID, stored[0].ID, "create must prepend")
}

func TestProjectStore_CreateValidatesName(t *testing.T) {
	ps, _ := newProjectStore(t)
	_, err := ps.Create(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed rule 'required'")
}

func TestProjectStore_GetAllSortsByUpdatedAtDesc(t *testing.T) {
	ctx := context.Background()
	ps, _ := newProjectStore(t)

	a, err := ps.Create(ctx, "A", "")
	require.NoError(t, err)
	_, err = ps.Create(ctx, "B", "")
	require.NoError(t, err)

	_, err = ps.AddItem(ctx, a.ID, models.ItemFields{Type: models.TypePersona, Name: "Alex Rivera"})
	require.NoError(t, err)

	projects, err := ps.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "A", projects[0].Name)
	assert.Equal(t, "B", projects[1].Name)
}

func TestProjectStore_AddItem(t *testing.T) {
	ctx := context.Background()
	ps, _ := newProjectStore(t)
	p, err := ps.Create(ctx, "Banking App", "")
	require.NoError(t, err)

	seen := map[string]bool{p.ID: true}
	prevUpdated := p.UpdatedAt
	for i := range 3 {
		updated, err := ps.AddItem(ctx, p.ID, models.ItemFields{
			Type:         models.TypeJTBD,
			Name:         models.JTBDSetName,
			Data:         models.GeneratedResult{JTBD: threeJTBD()},
			InputContext: models.InputContext{Context: "banking", Type: models.TypeJTBD},
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.Len(t, updated.Items, i+1)

		first := updated.Items[0]
		assert.False(t, seen[first.ID], "item id must be fresh")
		seen[first.ID] = true
		assert.Greater(t, updated.UpdatedAt, prevUpdated)
		assert.Equal(t, updated.UpdatedAt, first.UpdatedAt)
		assert.Equal(t, first.CreatedAt, first.UpdatedAt)
		prevUpdated = updated.UpdatedAt
	}
}

func TestProjectStore_AddItemUnknownProject(t *testing.T) {
	ctx := context.Background()
	ps, kvs := newProjectStore(t)
	got, err := ps.AddItem(ctx, "missing", models.ItemFields{Type: models.TypePersona})
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = kvs.Get(ctx, ProjectsKey)
	assert.ErrorIs(t, err, kv.ErrNotFound, "a miss must not write")
}

func TestProjectStore_AddItemWithCompleteDataIsBoth(t *testing.T) {
	ctx := context.Background()
	ps, _ := newProjectStore(t)
	p, err := ps.Create(ctx, "Banking App", "")
	require.NoError(t, err)

	updated, err := ps.AddItem(ctx, p.ID, models.ItemFields{
		Type: models.TypePersona,
		Name: "Alex Rivera",
		Data: models.GeneratedResult{Persona: alex(), JTBD: threeJTBD()},
	})
	require.NoError(t, err)
	assert.Equal(t, models.TypeBoth, updated.Items[0].Type)
}

func TestProjectStore_UpdateItemIsIdempotentOnDataButBumpsStamp(t *testing.T) {
	ctx := context.Background()
	ps, _ := newProjectStore(t)
	p, err := ps.Create(ctx, "Banking App", "")
	require.NoError(t, err)
	p, err = ps.AddItem(ctx, p.ID, models.ItemFields{Type: models.TypePersona, Name: "Alex Rivera", Data: models.GeneratedResult{Persona: alex()}})
	require.NoError(t, err)
	itemID := p.Items[0].ID

	data := models.GeneratedResult{Persona: alex()}
	first, err := ps.UpdateItem(ctx, p.ID, itemID, data)
	require.NoError(t, err)
	second, err := ps.UpdateItem(ctx, p.ID, itemID, data)
	require.NoError(t, err)

	assert.Equal(t, first.Items[0].Data, second.Items[0].Data)
	assert.Greater(t, second.Items[0].UpdatedAt, first.Items[0].UpdatedAt)
	assert.Greater(t, second.UpdatedAt, first.UpdatedAt)
	assert.Equal(t, models.TypePersona, second.Items[0].Type)
}

func TestProjectStore_UpdateItemUpgradesType(t *testing.T) {
	tests := []struct {
		name  string
		start models.GeneratorType
		data  models.GeneratedResult
		want  models.GeneratorType
	}{
		{"persona gains jtbd", models.TypePersona, models.GeneratedResult{Persona: alex(), JTBD: threeJTBD()}, models.TypeBoth},
		{"jtbd gains persona", models.TypeJTBD, models.GeneratedResult{Persona: alex(), JTBD: threeJTBD()}, models.TypeBoth},
		{"empty jtbd list does not upgrade", models.TypePersona, models.GeneratedResult{Persona: alex(), JTBD: []models.JTBDData{}}, models.TypePersona},
		{"both is never downgraded", models.TypeBoth, models.GeneratedResult{JTBD: threeJTBD()}, models.TypeBoth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ps, _ := newProjectStore(t)
			p, err := ps.Create(ctx, "P", "")
			require.NoError(t, err)
			p, err = ps.AddItem(ctx, p.ID, models.ItemFields{Type: tt.start, Name: "x"})
			require.NoError(t, err)

			got, err := ps.UpdateItem(ctx, p.ID, p.Items[0].ID, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Items[0].Type)
		})
	}
}

func TestProjectStore_UpdateItemMisses(t *testing.T) {
	ctx := context.Background()
	ps, _ := newProjectStore(t)
	p, err := ps.Create(ctx, "P", "")
	require.NoError(t, err)

	got, err := ps.UpdateItem(ctx, "missing", "x", models.GeneratedResult{})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ps.UpdateItem(ctx, p.ID, "missing", models.GeneratedResult{})
	require.NoError(t, err)
	assert.Nil(t, got)

	after, err := ps.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.UpdatedAt, after.UpdatedAt, "a miss must not stamp")
}

func TestProjectStore_DeleteItem(t *testing.T) {
	ctx := context.Background()
	ps, _ := newProjectStore(t)
	p, err := ps.Create(ctx, "P", "")
	require.NoError(t, err)
	p, err = ps.AddItem(ctx, p.ID, models.ItemFields{Type: models.TypePersona, Name: "a"})
	require.NoError(t, err)
	p, err = ps.AddItem(ctx, p.ID, models.ItemFields{Type: models.TypePersona, Name: "b"})
	require.NoError(t, err)

	unchanged, err := ps.DeleteItem(ctx, p.ID, "missing")
	require.NoError(t, err)
	require.NotNil(t, unchanged)
	assert.Len(t, unchanged.Items, 2)

	removed, err := ps.DeleteItem(ctx, p.ID, p.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, removed.Items, 1)
	assert.Equal(t, "a", removed.Items[0].Name)
	assert.Greater(t, removed.UpdatedAt, unchanged.UpdatedAt)

	none, err := ps.DeleteItem(ctx, "missing", "x")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestProjectStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	ps, _ := newProjectStore(t)
	p, err := ps.Create(ctx, "Old", "")
	require.NoError(t, err)

	renamed := *p
	renamed.Name = "New"
	got, err := ps.Update(ctx, renamed)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "New", got.Name)
	assert.Greater(t, got.UpdatedAt, p.UpdatedAt)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)

	ghost := models.Project{ID: "ghost", Name: "Ghost"}
	got, err = ps.Update(ctx, ghost)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, ps.Delete(ctx, "ghost"))
	require.NoError(t, ps.Delete(ctx, p.ID))
	projects, err := ps.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectStore_Resolve(t *testing.T) {
	ctx := context.Background()
	ps, _ := newProjectStore(t)
	p, err := ps.Create(ctx, "P", "")
	require.NoError(t, err)

	got, err := ps.Resolve(ctx, p.ID[:4])
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = ps.Resolve(ctx, "zzz")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kvs := newKV(t)
	clock := time.UnixMilli(1_712_345_678_901)
	ps := NewProjectStore(kvs, WithClock(func() time.Time { return clock }))

	p, err := ps.Create(ctx, "Banking App", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	_, err = ps.AddItem(ctx, p.ID, models.ItemFields{
		Type:         models.TypeBoth,
		Name:         "Alex Rivera",
		Data:         models.GeneratedResult{Persona: alex(), JTBD: threeJTBD()},
		InputContext: models.InputContext{Context: "A banking app for freelancers", Type: models.TypeBoth},
	})
	require.NoError(t, err)

	before, err := ps.GetAll(ctx)
	require.NoError(t, err)

	raw, err := kvs.Get(ctx, ProjectsKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"createdAt":1712345678901`)
	assert.Contains(t, string(raw), `"previewImage":"data:image/png;base64,AAAA"`)
	assert.Contains(t, string(raw), `"inputContext":{"context":"A banking app for freelancers","type":"both"}`)

	reloaded := NewProjectStore(kvs)
	after, err := reloaded.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestProjectStore_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	ps, kvs := newProjectStore(t)
	require.NoError(t, kvs.Set(ctx, ProjectsKey, []byte("{not json")))

	_, err := ps.GetAll(ctx)
	require.Error(t, err)
	_, err = ps.Create(ctx, "P", "")
	require.Error(t, err, "a corrupt library must not be overwritten")
}

func TestHistoryStore_AppendPrepends(t *testing.T) {
	ctx := context.Background()
	hs := NewHistoryStore(newKV(t), WithClock(frozenClock()), WithIDGenerator(sequentialIDs("h")))

	first, err := hs.Append(ctx, models.HistoryItem{InputContext: models.InputContext{Context: "first", Type: models.TypeBoth}})
	require.NoError(t, err)
	second, err := hs.Append(ctx, models.HistoryItem{InputContext: models.InputContext{Context: "second", Type: models.TypeBoth}})
	require.NoError(t, err)

	items, err := hs.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
	assert.Greater(t, items[0].Timestamp, items[1].Timestamp)
}

func TestHistoryStore_ClearLeavesProjects(t *testing.T) {
	ctx := context.Background()
	kvs := newKV(t)
	hs := NewHistoryStore(kvs)
	ps := NewProjectStore(kvs)

	_, err := ps.Create(ctx, "Keep me", "")
	require.NoError(t, err)
	_, err = hs.Append(ctx, models.HistoryItem{InputContext: models.InputContext{Context: "Created project: Keep me", Type: models.TypeBoth}})
	require.NoError(t, err)

	require.NoError(t, hs.Clear(ctx))
	items, err := hs.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	projects, err := ps.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestHistoryStore_Find(t *testing.T) {
	ctx := context.Background()
	hs := NewHistoryStore(newKV(t), WithIDGenerator(sequentialIDs("entry")))
	_, err := hs.Append(ctx, models.HistoryItem{InputContext: models.InputContext{Context: "a", Type: models.TypeJTBD}})
	require.NoError(t, err)

	got, err := hs.Find(ctx, "entry-001")
	require.NoError(t, err)
	assert.Equal(t, "a", got.InputContext.Context)

	_, err = hs.Find(ctx, "nope")
	require.Error(t, err)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	kvs := newKV(t)
	ss := NewSessionStore(kvs)

	got, err := ss.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	snap := models.Session{
		View:                   models.ViewOutput,
		TempInputContext:       &models.InputContext{Context: "ctx", Type: models.TypeBoth},
		TempResult:             &models.GeneratedResult{Persona: alex()},
		SavedInitialInputType:  models.TypeBoth,
		SavedIsInputTypeLocked: true,
	}
	require.NoError(t, ss.Save(ctx, snap))

	got, err = ss.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap, *got)

	require.NoError(t, kvs.Set(ctx, SessionKey, []byte(`{"view":"nowhere"}`)))
	got, err = ss.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, kvs.Set(ctx, SessionKey, []byte(`garbage`)))
	got, err = ss.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_ChecksumMismatchIsAbsent(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	kvs, err := kv.NewFileStore(fsys, "/data")
	require.NoError(t, err)
	ss := NewSessionStore(kvs)

	require.NoError(t, ss.Save(ctx, models.Session{View: models.ViewOutput}))
	require.NoError(t, afero.WriteFile(fsys, "/data/perspecto_session.json", []byte(`{"view":"home"}`), 0o644))

	got, err := ss.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// The next save replaces the bad document and its checksum.
	require.NoError(t, ss.Save(ctx, models.Session{View: models.ViewHome}))
	got, err = ss.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.ViewHome, got.View)
}

func TestProjectStore_LongNameCanBeUpdated(t *testing.T) {
	ctx := context.Background()
	ps, _ := newProjectStore(t)

	long := strings.Repeat("Banking ", 40)
	p, err := ps.Create(ctx, long, "")
	require.NoError(t, err)

	p.Name = long + "v2"
	updated, err := ps.Update(ctx, *p)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, long+"v2", updated.Name)
}
