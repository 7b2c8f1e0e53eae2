package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Local Backend:
// - Put/Get round-trips object bytes
// - Put creates nested key directories
// - Put overwrites an existing object
// - Get of a missing key returns ErrNotFound
// - List returns keys under a prefix in slash form
// - Delete removes an object; deleting a missing key is not an error
// - Partially written temp files are never visible as objects

func newTestLocalBackend(t *testing.T) *LocalBackend {
	t.Helper()
	backend, err := NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	return backend
}

func TestLocalBackend_PutGetRoundTrip(t *testing.T) {
	t.Parallel()
	backend := newTestLocalBackend(t)
	ctx := context.Background()

	data := []byte(`{"task_type":"code_generation"}`)
	require.NoError(t, backend.Put(ctx, "batches/python/abc.json", data))

	got, err := backend.Get(ctx, "batches/python/abc.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalBackend_PutOverwrites(t *testing.T) {
	t.Parallel()
	backend := newTestLocalBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "k.json", []byte("one")))
	require.NoError(t, backend.Put(ctx, "k.json", []byte("two")))

	got, err := backend.Get(ctx, "k.json")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestLocalBackend_GetMissingReturnsNotFound(t *testing.T) {
	t.Parallel()
	backend := newTestLocalBackend(t)

	_, err := backend.Get(context.Background(), "nope.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalBackend_ListFiltersByPrefix(t *testing.T) {
	t.Parallel()
	backend := newTestLocalBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "batches/python/a.json", []byte("a")))
	require.NoError(t, backend.Put(ctx, "batches/python/b.json", []byte("b")))
	require.NoError(t, backend.Put(ctx, "batches/rust/c.json", []byte("c")))

	keys, err := backend.List(ctx, "batches/python/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"batches/python/a.json", "batches/python/b.json"}, keys)

	all, err := backend.List(ctx, "batches/")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocalBackend_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	backend := newTestLocalBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "k.json", []byte("x")))
	require.NoError(t, backend.Delete(ctx, "k.json"))

	_, err := backend.Get(ctx, "k.json")
	assert.ErrorIs(t, err, ErrNotFound)

	// Second delete of the same key succeeds.
	assert.NoError(t, backend.Delete(ctx, "k.json"))
}

func TestLocalBackend_NoTempFilesLeftBehind(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	backend, err := NewLocalBackend(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "batches/python/a.json", []byte("a")))

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		assert.NotContains(t, filepath.Base(path), ".put-", "temp file leaked: %s", path)
		return nil
	})
	require.NoError(t, err)
}
