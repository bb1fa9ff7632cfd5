package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValueStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewKeyValueStore()

	_, found, err := store.GetItem(ctx, "inspirations")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetItem(ctx, "inspirations", "[]"))
	value, found, err := store.GetItem(ctx, "inspirations")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", value)

	require.NoError(t, store.SetItem(ctx, "inspirations", `[{"id":"1"}]`))
	value, _, _ = store.GetItem(ctx, "inspirations")
	assert.Equal(t, `[{"id":"1"}]`, value)

	require.NoError(t, store.RemoveItem(ctx, "inspirations"))
	require.NoError(t, store.RemoveItem(ctx, "missing"))
	assert.Equal(t, 0, store.Len())
}

func TestKeyValueStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewKeyValueStore()
	assert.ErrorIs(t, store.SetItem(ctx, "k", "v"), context.Canceled)
	_, _, err := store.GetItem(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
