// Package cache is a thin JSON cache on Redis used to shield the CMS
// from repeated listing queries. A nil *Client is valid and disables
// caching, so callers never branch on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps a Redis connection with a fixed TTL.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// New connects to Redis and verifies the connection with a ping.
func New(addr, password string, ttl time.Duration, logger *slog.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{rdb: rdb, ttl: ttl, log: logger}, nil
}

// GetJSON loads key into out. Any error, including a plain miss, reports
// false so the caller falls through to the origin.
func (c *Client) GetJSON(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("cache read failed", slog.String("key", key), slog.Any("err", err))
		}
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Debug("cache entry undecodable", slog.String("key", key), slog.Any("err", err))
		return false
	}
	return true
}

// SetJSON stores v under key with the configured TTL. Failures are logged
// and swallowed; the cache is best effort.
func (c *Client) SetJSON(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Debug("cache marshal failed", slog.String("key", key), slog.Any("err", err))
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Debug("cache write failed", slog.String("key", key), slog.Any("err", err))
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
