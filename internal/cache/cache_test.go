package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var out cachedThing
	found, err := GetJSON(ctx, "thing:1", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "thing:1", cachedThing{ID: 1, Name: "first"}, time.Minute))

	found, err = GetJSON(ctx, "thing:1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "first", out.Name)
}

func TestAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			calls++
			*dest = cachedThing{ID: 2, Name: "fetched"}
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, "thing:2", &first, time.Minute, fetch(&first)))
	assert.Equal(t, "fetched", first.Name)
	assert.Equal(t, 1, calls)

	// Second read is served from the cache
	var second cachedThing
	require.NoError(t, Aside(ctx, "thing:2", &second, time.Minute, fetch(&second)))
	assert.Equal(t, "fetched", second.Name)
	assert.Equal(t, 1, calls)
}

func TestAsideFetchError(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	wantErr := assert.AnError
	var out cachedThing
	err := Aside(ctx, "thing:3", &out, time.Minute, func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	// Nothing was cached for the failed fetch
	found, err := GetJSON(ctx, "thing:3", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAsideWithoutRedis(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	calls := 0
	var out cachedThing
	for i := 0; i < 2; i++ {
		require.NoError(t, Aside(ctx, "thing:4", &out, time.Minute, func() error {
			calls++
			out = cachedThing{ID: 4, Name: "uncached"}
			return nil
		}))
	}
	// Every read hits the fetch when the cache is down
	assert.Equal(t, 2, calls)
}

func TestInvalidate(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(9), cachedThing{ID: 9}, time.Minute))
	require.NoError(t, SetJSON(ctx, ProfileKey(9), cachedThing{ID: 9}, time.Minute))

	InvalidateUser(ctx, 9)
	InvalidateProfile(ctx, 9)

	var out cachedThing
	found, err := GetJSON(ctx, UserKey(9), &out)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = GetJSON(ctx, ProfileKey(9), &out)
	require.NoError(t, err)
	assert.False(t, found)
}
