package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*KeyValueStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "inspirations.db")
	store, err := NewKeyValueStore(path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestKeyValueStore_UpsertAndRemove(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, found, err := store.GetItem(ctx, "userPreferences")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetItem(ctx, "userPreferences", `{"theme":"dark"}`))
	require.NoError(t, store.SetItem(ctx, "userPreferences", `{"theme":"light"}`))

	value, found, err := store.GetItem(ctx, "userPreferences")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"theme":"light"}`, value)

	require.NoError(t, store.RemoveItem(ctx, "userPreferences"))
	_, found, err = store.GetItem(ctx, "userPreferences")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKeyValueStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)
	require.NoError(t, store.SetItem(ctx, "inspirations", `[{"id":"1"}]`))
	require.NoError(t, store.Close())

	reopened, err := NewKeyValueStore(path, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.GetItem(ctx, "inspirations")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, value)
}
