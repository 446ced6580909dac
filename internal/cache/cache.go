package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trinetra-labs/credentials-backend/internal/config"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// Setup initializes the Redis connection. The cache is best-effort: a
// missing cache server degrades reads to the database, it never fails
// startup.
func Setup(cfg *config.Config) {
	client = redis.NewClient(&redis.Options{
		Addr: cfg.CacheAddr(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("cache unavailable, falling back to direct reads", "addr", cfg.CacheAddr(), "error", err)
	} else {
		slog.Info("cache connected", "addr", cfg.CacheAddr())
	}
}

// Set stores a value under key with the given TTL.
func Set(key string, value string, ttl time.Duration) error {
	if client == nil {
		return redis.Nil
	}
	return client.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a value by key. Returns redis.Nil on a miss.
func Get(key string) (string, error) {
	if client == nil {
		return "", redis.Nil
	}
	return client.Get(ctx, key).Result()
}

// Delete removes keys from the cache.
func Delete(keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("cache delete failed", "error", err)
	}
}

// Close shuts down the Redis connection.
func Close() {
	if client != nil {
		_ = client.Close()
	}
}
