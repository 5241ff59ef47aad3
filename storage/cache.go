package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"taskbook-api/domain"
)

// RedisCache is the key-value cache holding single notes. A nil client
// disables caching: reads always miss and writes are dropped.
type RedisCache struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

var _ domain.NoteCache = (*RedisCache)(nil)

// NewRedisCache creates a cache namespaced by prefix. Entries expire after
// ttl; a zero ttl disables writes.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisCache{redis: client, prefix: prefix, ttl: ttl}
}

// GenerateKey namespaces name with the configured prefix.
func (c *RedisCache) GenerateKey(name string) string {
	if c.prefix == "" {
		return name
	}
	return c.prefix + ":" + name
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.redis == nil {
		return nil, domain.ErrCacheMiss
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if c.redis == nil || c.ttl == 0 {
		return nil
	}
	return c.redis.Set(ctx, key, value, c.ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, key).Err()
}
