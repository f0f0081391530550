package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeGlob(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"dashboard:org:", "dashboard:org:"},
		{"loans:org:Multi+Family:%61ll", "loans:org:Multi+Family:%61ll"},
		{"a*b?c[d]", `a\*b\?c\[d\]`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeGlob(tt.in))
	}
}

func TestRedisCache_UnreachableDegradesToMiss(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewRedisCache(RedisOptions{Addr: "127.0.0.1:1", TTL: time.Minute}, logger)
	defer c.Close()
	ctx := context.Background()

	c.Put(ctx, "k", []byte("v"), 0)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Invalidate(ctx, "k")
	assert.Error(t, c.Ping(ctx))
}

func newTestRedisCache(t *testing.T, maxEntries int, onEvict func(string)) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(RedisOptions{
		Addr:       mr.Addr(),
		TTL:        time.Minute,
		MaxEntries: maxEntries,
		KeyPrefix:  "insightsd:",
		OnEvict:    onEvict,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_EnforcesCeilingInInsertionOrder(t *testing.T) {
	var evicted []string
	c, mr := newTestRedisCache(t, 3, func(k string) { evicted = append(evicted, k) })
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		c.Put(ctx, k, []byte(k), 0)
	}

	assert.Equal(t, []string{"a", "b"}, evicted)
	for _, k := range []string{"a", "b"} {
		_, ok := c.Get(ctx, k)
		assert.False(t, ok, k)
		assert.False(t, mr.Exists("insightsd:"+k), k)
	}
	for _, k := range []string{"c", "d", "e"} {
		got, ok := c.Get(ctx, k)
		require.True(t, ok, k)
		assert.Equal(t, []byte(k), got)
	}
	members, err := mr.ZMembers("insightsd:" + redisIndexKey)
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestRedisCache_RePutCountsAsNewInsertion(t *testing.T) {
	c, _ := newTestRedisCache(t, 2, nil)
	ctx := context.Background()

	c.Put(ctx, "a", []byte("1"), 0)
	c.Put(ctx, "b", []byte("2"), 0)
	c.Put(ctx, "a", []byte("3"), 0)
	c.Put(ctx, "c", []byte("4"), 0)

	_, ok := c.Get(ctx, "b")
	assert.False(t, ok)
	got, ok := c.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, []byte("3"), got)
}

func TestRedisCache_InvalidateClearsIndex(t *testing.T) {
	c, mr := newTestRedisCache(t, 10, nil)
	ctx := context.Background()

	c.Put(ctx, "dashboard:org1:all", []byte("x"), 0)
	c.Put(ctx, "dashboard:org2:all", []byte("y"), 0)
	c.Put(ctx, "loans:org1:all", []byte("z"), 0)

	c.Invalidate(ctx, "dashboard:org1:")

	_, ok := c.Get(ctx, "dashboard:org1:all")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "dashboard:org2:all")
	assert.True(t, ok)
	members, err := mr.ZMembers("insightsd:" + redisIndexKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"insightsd:dashboard:org2:all", "insightsd:loans:org1:all"}, members)

	c.Invalidate(ctx, "")
	assert.True(t, mr.Exists("insightsd:"+redisSeqKey))
	_, ok = c.Get(ctx, "loans:org1:all")
	assert.False(t, ok)
}

func TestRedisCache_EntriesExpire(t *testing.T) {
	c, mr := newTestRedisCache(t, 10, nil)
	ctx := context.Background()

	c.Put(ctx, "k", []byte("v"), 0)
	_, ok := c.Get(ctx, "k")
	require.True(t, ok)

	mr.FastForward(time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}
