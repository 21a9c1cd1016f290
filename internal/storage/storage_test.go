package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behavior every Store implementation must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "compare_list")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "compare_list", []byte("[1,2]")))
	value, err := store.Get(ctx, "compare_list")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", string(value))

	require.NoError(t, store.Set(ctx, "compare_list", []byte("[3]")))
	value, err = store.Get(ctx, "compare_list")
	require.NoError(t, err)
	assert.Equal(t, "[3]", string(value))

	require.NoError(t, store.Set(ctx, "token", []byte(`{"access_token":"x"}`)))

	require.NoError(t, store.Delete(ctx, "compare_list"))
	_, err = store.Get(ctx, "compare_list")
	assert.ErrorIs(t, err, ErrNotFound)

	// Other keys are untouched and deleting a missing key is fine.
	require.NoError(t, store.Delete(ctx, "compare_list"))
	value, err = store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, `{"access_token":"x"}`, string(value))

	require.NoError(t, store.Delete(ctx, "token"))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)
	assert.Empty(t, store.Keys())
	assert.NoError(t, store.Close())
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	input := []byte("[1]")
	require.NoError(t, store.Set(ctx, "k", input))
	input[1] = '9'

	out, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(out))

	out[1] = '7'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(again))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "compare_list", []byte("[4,5]")))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	value, err := second.Get(ctx, "compare_list")
	require.NoError(t, err)
	assert.Equal(t, "[4,5]", string(value))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "compare_list")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "failed to parse storage file")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := Open(ctx, "memory://")
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		store, err := Open(ctx, "file://"+path)
		require.NoError(t, err)
		fileStore, ok := store.(*FileStore)
		require.True(t, ok)
		assert.Equal(t, path, fileStore.Path())
	})

	t.Run("file in home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		store, err := Open(ctx, "file://~/.jobhunter/state.json")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".jobhunter", "state.json"), store.(*FileStore).Path())
	})

	t.Run("errors", func(t *testing.T) {
		for _, raw := range []string{"no-scheme", "ftp://host/x", "file://"} {
			_, err := Open(ctx, raw)
			assert.Error(t, err, raw)
		}
	})
}
