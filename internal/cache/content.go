// Package cache holds the rendered public content document in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/observability"
)

const contentKey = "prodcat:content:v1"

// DefaultTTL bounds staleness if an invalidation is lost.
const DefaultTTL = 5 * time.Minute

// NewClient connects to Redis. An empty URL means no cache: it returns nil, nil.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// ContentCache stores the /api/content response body. A nil *ContentCache is
// valid and never hits. Redis errors are logged and treated as misses.
type ContentCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewContentCache returns nil when client is nil.
func NewContentCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *ContentCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ContentCache{client: client, ttl: ttl, log: log}
}

func (c *ContentCache) Get(ctx context.Context) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, contentKey).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		observability.ContentCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		observability.ContentCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn("content cache get failed", zap.Error(err))
		return nil, false
	}
	observability.ContentCacheTotal.WithLabelValues("hit").Inc()
	return b, true
}

func (c *ContentCache) Set(ctx context.Context, body []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, contentKey, body, c.ttl).Err(); err != nil {
		observability.ContentCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn("content cache set failed", zap.Error(err))
	}
}

func (c *ContentCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, contentKey).Err(); err != nil {
		observability.ContentCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn("content cache invalidate failed", zap.Error(err))
	}
}
