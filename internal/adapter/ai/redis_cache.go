package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "skillmap:agent:"

// RedisCache shares agent results between instances.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache connects to redisURL. The connection is verified with a
// ping bounded by ctx.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("op=ai.NewRedisCache: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("op=ai.NewRedisCache.ping: %w", err)
	}
	slog.Info("agent cache: redis connected", slog.String("addr", opts.Addr), slog.Duration("ttl", ttl))
	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

// Get returns a cached result. Decode or transport errors count as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]string, bool) {
	data, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Debug("agent cache: redis get failed", slog.Any("error", err))
		}
		return nil, false
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	if out == nil {
		out = []string{}
	}
	return out, true
}

// Set stores skills with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, skills []string) {
	data, err := json.Marshal(skills)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		slog.Debug("agent cache: redis set failed", slog.Any("error", err))
	}
}

// Ping checks redis reachability for readiness probes.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
