// Package cache stores JSON-encoded lists in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListCache caches []T values under prefix-qualified keys.
type ListCache[T any] struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewListCache returns a ListCache whose keys are prefixed with prefix + ":".
func NewListCache[T any](rdb redis.UniversalClient, prefix string, ttl time.Duration) *ListCache[T] {
	return &ListCache[T]{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *ListCache[T]) key(k string) string {
	return c.prefix + ":" + k
}

// Get returns the cached list and true, or nil and false on a miss.
func (c *ListCache[T]) Get(ctx context.Context, key string) ([]T, bool, error) {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var list []T
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	if list == nil {
		list = []T{}
	}
	return list, true, nil
}

// Set stores list under key for the cache TTL.
func (c *ListCache[T]) Set(ctx context.Context, key string, list []T) error {
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(key), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the given keys.
func (c *ListCache[T]) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
