package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisStore := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "perspecto:")

	stores := map[string]Store{
		"file":   fileStore,
		"sqlite": sqliteStore,
		"redis":  redisStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "perspecto_projects")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "perspecto_projects", []byte(`[1]`)))
			got, err := s.Get(ctx, "perspecto_projects")
			require.NoError(t, err)
			assert.Equal(t, `[1]`, string(got))

			require.NoError(t, s.Update(ctx, "perspecto_projects", func(cur []byte) ([]byte, error) {
				assert.Equal(t, `[1]`, string(cur))
				return []byte(`[1,2]`), nil
			}))
			got, err = s.Get(ctx, "perspecto_projects")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))

			require.NoError(t, s.Update(ctx, "perspecto_projects", func([]byte) ([]byte, error) {
				return nil, ErrNoChange
			}))
			got, err = s.Get(ctx, "perspecto_projects")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))

			boom := errors.New("boom")
			err = s.Update(ctx, "perspecto_projects", func([]byte) ([]byte, error) { return nil, boom })
			assert.ErrorIs(t, err, boom)

			require.NoError(t, s.Delete(ctx, "perspecto_projects"))
			require.NoError(t, s.Delete(ctx, "perspecto_projects"))
			_, err = s.Get(ctx, "perspecto_projects")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestUpdateOnMissingKeySeesNil(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Update(ctx, "perspecto_history", func(cur []byte) ([]byte, error) {
				assert.Nil(t, cur)
				return []byte(`[]`), nil
			}))
			got, err := s.Get(ctx, "perspecto_history")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))
		})
	}
}

func TestKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "perspecto_history", []byte(`["h"]`)))
			require.NoError(t, s.Set(ctx, "perspecto_projects", []byte(`["p"]`)))
			require.NoError(t, s.Delete(ctx, "perspecto_history"))

			got, err := s.Get(ctx, "perspecto_projects")
			require.NoError(t, err)
			assert.Equal(t, `["p"]`, string(got))
		})
	}
}

func TestValidateKey(t *testing.T) {
	for _, k := range []string{"perspecto_session", "a", "x-1"} {
		assert.NoError(t, ValidateKey(k), k)
	}
	for _, k := range []string{"", "../etc", "A", "a/b", "_x"} {
		assert.Error(t, ValidateKey(k), k)
	}
}

func TestFileStoreChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	s, err := NewFileStore(fsys, "/data")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "perspecto_session", []byte(`{"view":"home"}`)))
	require.NoError(t, afero.WriteFile(fsys, "/data/perspecto_session.json", []byte(`{"view":"input"}`), 0o644))

	_, err = s.Get(ctx, "perspecto_session")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestFileStoreWriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	s, err := NewFileStore(fsys, "/data")
	require.NoError(t, err)

	// Leftovers of an interrupted write never reach readers.
	require.NoError(t, afero.WriteFile(fsys, "/data/perspecto_projects.json.checksum.tmp", []byte("trunc"), 0o644))

	require.NoError(t, s.Set(ctx, "perspecto_projects", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "perspecto_projects", []byte(`[{"id":"p1"}]`)))

	got, err := s.Get(ctx, "perspecto_projects")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"p1"}]`, string(got))

	sum, err := afero.ReadFile(fsys, "/data/perspecto_projects.json.checksum")
	require.NoError(t, err)
	assert.Equal(t, calculateChecksum([]byte(`[{"id":"p1"}]`)), string(sum))

	for _, leftover := range []string{"/data/perspecto_projects.json.tmp", "/data/perspecto_projects.json.checksum.tmp"} {
		exists, err := afero.Exists(fsys, leftover)
		require.NoError(t, err)
		assert.False(t, exists, leftover)
	}
}

func TestFileStoreAcceptsHandWrittenDocument(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s, err := NewFileStore(fsys, "/data")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fsys, "/data/perspecto_history.json", []byte(`[]`), 0o644))

	got, err := s.Get(context.Background(), "perspecto_history")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestFileStoreWatchRequiresOSFilesystem(t *testing.T) {
	s, err := NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	_, err = s.Watch(context.Background())
	assert.ErrorIs(t, err, ErrWatchUnsupported)
}

func TestFileStoreOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewOSFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "perspecto_projects", func([]byte) ([]byte, error) {
		return []byte(`[]`), nil
	}))
	got, err := s.Get(ctx, "perspecto_projects")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.FileExists(t, filepath.Join(dir, "perspecto_projects.json"))
	assert.FileExists(t, filepath.Join(dir, "perspecto_projects.json.checksum"))
}

func TestKeyFromEvent(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		key   string
		ok    bool
	}{
		{fsnotify.Event{Name: "/d/perspecto_projects.json", Op: fsnotify.Create}, "perspecto_projects", true},
		{fsnotify.Event{Name: "/d/perspecto_session.json", Op: fsnotify.Write}, "perspecto_session", true},
		{fsnotify.Event{Name: "/d/perspecto_session.json.tmp", Op: fsnotify.Write}, "", false},
		{fsnotify.Event{Name: "/d/perspecto_session.json.checksum", Op: fsnotify.Write}, "", false},
		{fsnotify.Event{Name: "/d/perspecto_session.json", Op: fsnotify.Remove}, "", false},
	}
	for _, tt := range tests {
		key, ok := keyFromEvent(tt.event)
		assert.Equal(t, tt.ok, ok, tt.event.Name)
		assert.Equal(t, tt.key, key, tt.event.Name)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage backend")
}
