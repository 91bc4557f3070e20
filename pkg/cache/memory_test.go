package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "k", "fern")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "fern", []byte("v")))

	value, ok, err := c.Get(ctx, "k", "fern")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	require.NoError(t, c.Delete(ctx, "k", "fern"))

	_, ok, err = c.Get(ctx, "k", "fern")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheNamespacesIsolated(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "k", "b", []byte("2")))

	assert.Equal(t, 2, c.Len())

	value, ok, err := c.Get(ctx, "k", "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("1"), value)

	require.NoError(t, c.Delete(ctx, "k", "a"))

	_, ok, _ = c.Get(ctx, "k", "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "k", "b")
	assert.True(t, ok)
}
