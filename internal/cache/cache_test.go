package cache

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-sim/internal/simulation"
	"github.com/iwvelando/mortgage-sim/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	cfg := simulation.DefaultConfig()

	key, err := Key(cfg, "baseline")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, constants.CacheKeyPrefix))
	assert.Len(t, key, len(constants.CacheKeyPrefix)+16)

	again, err := Key(cfg, "baseline")
	require.NoError(t, err)
	assert.Equal(t, key, again, "keys must be deterministic")

	other, err := Key(cfg, "compare")
	require.NoError(t, err)
	assert.NotEqual(t, key, other, "variant must change the key")

	cfg.InterestRate = 0.07
	changed, err := Key(cfg, "baseline")
	require.NoError(t, err)
	assert.NotEqual(t, key, changed, "inputs must change the key")
}

func TestKeyUnencodable(t *testing.T) {
	_, err := Key(make(chan int), "baseline")
	assert.Error(t, err)
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	value := []byte(`{"run_id":"abc"}`)
	require.NoError(t, c.Set(ctx, "k", value, 0))

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, value, got)

	got[0] = 'X'
	again, _ := c.Get(ctx, "k")
	assert.Equal(t, byte('{'), again[0], "callers must not mutate stored values")
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			_ = c.Set(ctx, key, []byte(key), time.Hour)
			_, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 16, c.Len())
}

func TestRedisCacheUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c := NewRedisCache("127.0.0.1:1", "", 0, nil)
	defer func() { _ = c.Close() }()

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Error(t, c.Ping(ctx))
}

var (
	_ Repository = (*MemoryCache)(nil)
	_ Repository = (*RedisCache)(nil)
)
