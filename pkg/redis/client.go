package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rhq-project/rhq-coregui/config"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"go.uber.org/zap"
)

type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and pings it once.
func NewClient(cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})

	client := &Client{rdb: rdb}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.GetLogger().Error("Failed to connect to Redis",
			zap.String("address", cfg.RedisAddress()),
			zap.Error(err),
		)
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Successfully connected to Redis",
		zap.String("address", cfg.RedisAddress()),
		zap.Int("database", cfg.Redis.Database),
	)

	return client, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetJSON stores value as JSON under key for ttl.
func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.GetLogger().Error("Failed to set key",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// GetJSON decodes the value under key into dest. A missing key reports false
// without error.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		logger.GetLogger().Error("Failed to get key",
			zap.String("key", key),
			zap.Error(err),
		)
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Expire resets the time to live of key. It reports false when key is gone.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to expire %s: %w", key, err)
	}
	return ok, nil
}

// Delete removes keys.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.GetLogger().Error("Failed to delete keys",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// DeleteByPattern removes every key matching pattern using SCAN.
func (c *Client) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	var deleted int
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to scan %s: %w", pattern, err)
	}

	logger.GetLogger().Info("Keys deleted by pattern",
		zap.String("pattern", pattern),
		zap.Int("deleted_count", deleted),
	)
	return deleted, nil
}

// CountByPattern counts the keys matching pattern using SCAN.
func (c *Client) CountByPattern(ctx context.Context, pattern string) (int, error) {
	var n int
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return n, fmt.Errorf("failed to scan %s: %w", pattern, err)
	}
	return n, nil
}

// PoolStats reports connection pool counters for the health endpoint.
func (c *Client) PoolStats() map[string]any {
	stats := c.rdb.PoolStats()
	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}
