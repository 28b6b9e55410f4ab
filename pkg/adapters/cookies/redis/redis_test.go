package redis

import (
	"context"
	"testing"
	"time"

	"github.com/aescanero/wdcsim/internal/simconfig"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *Store) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewStore(client, ttl, zap.NewNop())
}

func TestJar_SetGet(t *testing.T) {
	mr, store := setupStore(t, time.Hour)
	ctx := context.Background()
	jar := store.Jar("s1")

	require.NoError(t, jar.Set(ctx, simconfig.CookieShowAdvanced, "true"))

	v, ok := jar.Get(ctx, simconfig.CookieShowAdvanced)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	assert.Equal(t, "true", mr.HGet("wdcsim:cookies:s1", simconfig.CookieShowAdvanced))
	assert.Equal(t, time.Hour, mr.TTL("wdcsim:cookies:s1"))
}

func TestJar_LoadDefaults(t *testing.T) {
	_, store := setupStore(t, 0)
	ctx := context.Background()
	jar := store.Jar("s1")

	raw, err := simconfig.EncodeCookieValue([]string{"a.html", "b.html"})
	require.NoError(t, err)
	require.NoError(t, jar.Set(ctx, simconfig.CookieMostRecentURLs, raw))

	d := simconfig.Load(ctx, jar)
	assert.Equal(t, "a.html", d.DefaultURL())

	other := simconfig.Load(ctx, store.Jar("s2"))
	assert.Equal(t, simconfig.Samples(), other.MostRecentURLs())
}

func TestJar_Expiry(t *testing.T) {
	mr, store := setupStore(t, time.Minute)
	ctx := context.Background()
	jar := store.Jar("s1")

	require.NoError(t, jar.Set(ctx, simconfig.CookieShowAdvanced, "true"))
	mr.FastForward(2 * time.Minute)

	_, ok := jar.Get(ctx, simconfig.CookieShowAdvanced)
	assert.False(t, ok)
}

func TestJar_UnavailableStoreFallsBack(t *testing.T) {
	mr, store := setupStore(t, time.Hour)
	mr.Close()

	d := simconfig.Load(context.Background(), store.Jar("s1"))
	assert.False(t, d.ShowAdvanced())
	assert.Equal(t, simconfig.Samples(), d.MostRecentURLs())
}

func TestStore_DeleteSession(t *testing.T) {
	mr, store := setupStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Jar("s1").Set(ctx, "a", "1"))
	require.NoError(t, store.Jar("s2").Set(ctx, "a", "1"))

	require.NoError(t, store.DeleteSession(ctx, "s1"))
	assert.False(t, mr.Exists("wdcsim:cookies:s1"))
	assert.True(t, mr.Exists("wdcsim:cookies:s2"))

	_, ok := store.Jar("s1").Get(ctx, "a")
	assert.False(t, ok)
}
