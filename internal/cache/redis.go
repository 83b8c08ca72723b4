package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache is a Repository backed by Redis.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects lazily to the Redis server at addr.
func NewRedisCache(addr, password string, db int, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
	})
	return &RedisCache{client: rdb, logger: logger}
}

// Get returns the stored value. Misses and connection failures both report
// false; failures are logged.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache read failed",
				zap.String("op", "cache.RedisCache.Get"),
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return nil, false
	}
	return val, true
}

// Set stores value for ttl. A zero ttl keeps the entry until evicted.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connections.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
