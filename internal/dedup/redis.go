package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lancers:seen:"

// RedisHistory keeps notified links as keys with a TTL.
type RedisHistory struct {
	rdb       *redis.Client
	retention time.Duration
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func NewRedisHistory(rdb *redis.Client, retention time.Duration) *RedisHistory {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RedisHistory{rdb: rdb, retention: retention}
}

func (h *RedisHistory) Seen(ctx context.Context, link string) (bool, error) {
	n, err := h.rdb.Exists(ctx, keyPrefix+link).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (h *RedisHistory) Mark(ctx context.Context, links []string) error {
	if len(links) == 0 {
		return nil
	}
	now := time.Now().UnixMilli()
	pipe := h.rdb.Pipeline()
	for _, link := range links {
		pipe.SetNX(ctx, keyPrefix+link, now, h.retention)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis mark links: %w", err)
	}
	return nil
}

func (h *RedisHistory) Close() error {
	return h.rdb.Close()
}
