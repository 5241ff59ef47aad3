package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const headerIdempotencyKey = "Idempotency-Key"

// RedisDeduper stores idempotency keys of create requests in Redis so all
// instances reject the same request twice.
type RedisDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper using the provided Redis client, key
// prefix and TTL.
func NewRedisDeduper(client *redis.Client, prefix string, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisDeduper) key(scope, key string) string {
	if r.prefix == "" {
		return fmt.Sprintf("idem:%s:%s", scope, key)
	}
	return fmt.Sprintf("%s:idem:%s:%s", r.prefix, scope, key)
}

// Add records the key if it does not already exist. It returns true when the
// key was newly added.
func (r *RedisDeduper) Add(ctx context.Context, scope, key string) (bool, error) {
	return r.client.SetNX(ctx, r.key(scope, key), 1, r.ttl).Result()
}

// Remove deletes a previously recorded key so the caller may retry.
func (r *RedisDeduper) Remove(ctx context.Context, scope, key string) error {
	return r.client.Del(ctx, r.key(scope, key)).Err()
}
