// Package cache is a small JSON cache over Redis. A Redis outage reads as
// a miss; write errors are returned for the caller to log.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect builds a client for addr and pings it. The client is returned
// even when the ping fails so callers can decide to run degraded.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return rdb, fmt.Errorf("cache: redis ping: %w", err)
	}
	return rdb, nil
}

// Cache stores JSON values under a key prefix.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New returns a cache whose keys are prefixed with prefix and expire
// after ttl.
func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get unmarshals the value under key into dest and reports a hit.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, dest) == nil
}

// Set stores value under key for the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(key), data, c.ttl).Err()
}

// Del removes keys.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.rdb.Del(ctx, full...).Err()
}
