package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestFilesystemStoreRoundTrip(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	in := []testDoc{{ID: "1", Name: "alpha"}, {ID: "2", Name: "beta"}}
	require.NoError(t, store.Save(context.Background(), "users", in))

	var out []testDoc
	require.NoError(t, store.Load(context.Background(), "users", &out))
	assert.Equal(t, in, out)
}

func TestFilesystemStoreLoadMissing(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	var out []testDoc
	err = store.Load(context.Background(), "users", &out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystemStoreLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("{not json"), 0o644))

	var out []testDoc
	err = store.Load(context.Background(), "users", &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFilesystemStoreSaveOverwrites(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "users", []testDoc{{ID: "1"}}))
	require.NoError(t, store.Save(context.Background(), "users", []testDoc{{ID: "2"}}))

	var out []testDoc
	require.NoError(t, store.Load(context.Background(), "users", &out))
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)
}
