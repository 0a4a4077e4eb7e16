package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// Module runs the Redis connection behind the todo list cache.
type Module struct {
	cache  *Cache
	config Config
}

var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule builds the cache eagerly so it can be handed to the todo module
// before Start. go-redis dials on first use.
func NewModule(config Config) *Module {
	rdb := redis.NewClient(&redis.Options{
		Addr:        config.RedisAddr,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 2 * time.Second,
	})
	return &Module{cache: New(rdb, config.Prefix, config.TTL), config: config}
}

func (m *Module) Name() string {
	return "cache"
}

func (m *Module) Cache() *Cache {
	return m.cache
}

// Start fails fast when Redis is unreachable.
func (m *Module) Start(ctx context.Context) error {
	if err := m.cache.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach Redis at %s: %w", m.config.RedisAddr, err)
	}
	log.Printf("[cache] Caching todo lists in Redis at %s for %s", m.config.RedisAddr, m.config.TTL)
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	s := m.cache.Stats()
	log.Printf("[cache] Stopping (hits: %d, misses: %d, failures: %d)", s.Hits, s.Misses, s.Failures)
	if err := m.cache.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}
	return nil
}

func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("redis unreachable: %v", err)}
	}
	s := m.cache.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"hits":     s.Hits,
			"misses":   s.Misses,
			"hit_rate": s.HitRate,
			"failures": s.Failures,
		},
	}
}
