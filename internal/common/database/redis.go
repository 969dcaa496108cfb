package database

import (
	"context"
	"fmt"
	"time"

	"site-integrations/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds a Redis client for the CMS response cache. It returns nil
// when no address is configured so callers can fall back to a no-op cache.
func NewRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Address == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// PingRedis tests the Redis connection
func PingRedis(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
