package cache_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jantrick/jantrick/pkg/cache"
)

// deadAddr returns an address nothing listens on.
func deadAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestConnectReturnsClientWhenPingFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rdb, err := cache.Connect(ctx, deadAddr(t), "")
	assert.Error(t, err)
	require.NotNil(t, rdb)
	assert.NoError(t, rdb.Close())
}

func TestUnreachableRedisFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: deadAddr(t), MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer rdb.Close()

	c := cache.New(rdb, "jantrick:", time.Minute)
	ctx := context.Background()

	var dest []string
	assert.False(t, c.Get(ctx, "tools:all", &dest))
	assert.Error(t, c.Set(ctx, "tools:all", []string{"a"}))
	assert.Nil(t, dest)
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *cache.Cache
	ctx := context.Background()

	var dest any
	assert.False(t, c.Get(ctx, "k", &dest))
	assert.NoError(t, c.Set(ctx, "k", 1))
	assert.NoError(t, c.Del(ctx, "k"))
}
