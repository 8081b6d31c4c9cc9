package cache

import (
	"context"
	"testing"
	"time"

	"github.com/elwarcha/gallery/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledStoreIsNoop(t *testing.T) {
	store := New(&config.RedisConfig{Enabled: false})
	ctx := context.Background()

	assert.False(t, store.Enabled())
	assert.Nil(t, store.Client())
	require.NoError(t, store.SetJSON(ctx, "facets", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	hit, err := store.GetJSON(ctx, "facets", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, store.Del(ctx, "facets"))
	assert.NoError(t, store.Close())
}

func TestKeyPrefix(t *testing.T) {
	store := NewWithClient(nil, " gallery ")
	assert.Equal(t, "gallery:catalog:facets", store.Key("catalog:facets"))
	assert.Equal(t, "gallery", store.Key("  "))

	var nilStore *Store
	assert.Equal(t, "elwarcha:x", nilStore.Key("x"))
}
