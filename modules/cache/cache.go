// Package cache keeps per-user read models, such as todo lists, in Redis
// using the cache-aside pattern. Values are stored as JSON.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds cache configuration.
type Config struct {
	RedisAddr string
	Prefix    string
	TTL       time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		RedisAddr: "localhost:6379",
		Prefix:    "todo:",
		TTL:       5 * time.Minute,
	}
}

// Stats is a point-in-time view of the cache counters. HitRate is a
// percentage of lookups.
type Stats struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Writes    uint64  `json:"writes"`
	Evictions uint64  `json:"evictions"`
	Failures  uint64  `json:"failures"`
	HitRate   float64 `json:"hit_rate"`
}

// Cache stores JSON values under prefixed keys with a fixed TTL.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration

	hits, misses, writes, evictions, failures atomic.Uint64
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(k string) string { return c.prefix + k }

func (c *Cache) fail(op string, err error) error {
	c.failures.Add(1)
	return fmt.Errorf("cache %s: %w", op, err)
}

// Get decodes the value stored for key into dest. found is false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) (found bool, err error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return false, nil
	case err != nil:
		return false, c.fail("get", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, c.fail("decode", err)
	}
	c.hits.Add(1)
	return true, nil
}

// Set stores value for key, replacing any previous value.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return c.fail("encode", err)
	}
	if err := c.rdb.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return c.fail("set", err)
	}
	c.writes.Add(1)
	return nil
}

// Delete evicts key. Evicting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return c.fail("delete", err)
	}
	c.evictions.Add(1)
	return nil
}

// Version returns the counter stored at key, or 0 when it was never bumped.
func (c *Cache) Version(ctx context.Context, key string) (int64, error) {
	v, err := c.rdb.Get(ctx, c.key(key)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, nil
	case err != nil:
		return 0, c.fail("version", err)
	}
	return v, nil
}

// Bump increments the counter at key and returns the new value. Counters
// do not expire.
func (c *Cache) Bump(ctx context.Context, key string) (int64, error) {
	v, err := c.rdb.Incr(ctx, c.key(key)).Result()
	if err != nil {
		return 0, c.fail("bump", err)
	}
	return v, nil
}

func (c *Cache) Stats() Stats {
	s := Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Writes:    c.writes.Load(),
		Evictions: c.evictions.Load(),
		Failures:  c.failures.Load(),
	}
	if lookups := s.Hits + s.Misses; lookups > 0 {
		s.HitRate = float64(s.Hits) / float64(lookups) * 100
	}
	return s
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
