package sqlitecache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name"`
	Port int    `json:"port"`
}

func newTestCache(t *testing.T) *Cache[sample] {
	t.Helper()
	cache, err := New[sample]("")
	require.NoError(t, err)
	return cache
}

func TestReadEmptyCache(t *testing.T) {
	cache := newTestCache(t)

	value, err := cache.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestWriteThenRead(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Write(ctx, &sample{Name: "svc", Port: 8080}))

	value, err := cache.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "svc", value.Name)
	assert.Equal(t, 8080, value.Port)
}

func TestWriteReplacesPreviousDocument(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Write(ctx, &sample{Name: "old"}))
	require.NoError(t, cache.Write(ctx, &sample{Name: "new"}))

	value, err := cache.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "new", value.Name)

	var count int64
	require.NoError(t, cache.db.Model(&Record{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestNilWriteClearsSlot(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Write(ctx, &sample{Name: "svc"}))
	require.NoError(t, cache.Write(ctx, nil))

	value, err := cache.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, value)
}
