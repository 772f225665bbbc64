package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a shared Redis instance, used when multiple
// rendering nodes should share one settings cache. Redis errors degrade to
// cache misses; the cache is an optimization, never a source of truth.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis creates a Redis-backed store. A non-positive ttl falls back to
// DefaultTTL.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl, prefix: "lpengine:settings:"}
}

// Get returns the cached value when present.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[CACHE] redis get %s: %v", key, err)
		return nil, false
	}
	return value, true
}

// Set stores a value with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		log.Printf("[CACHE] redis set %s: %v", key, err)
	}
}

// Delete drops a key.
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		log.Printf("[CACHE] redis del %s: %v", key, err)
	}
}
