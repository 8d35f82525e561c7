package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"
)

func TestNilContentCache(t *testing.T) {
	c := NewContentCache(nil, time.Minute, zap.NewNop())
	require.Nil(t, c)

	ctx := context.Background()
	c.Set(ctx, []byte("x"))
	c.Invalidate(ctx)
	b, ok := c.Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, b)
}

func TestNewClient_EmptyURL(t *testing.T) {
	client, err := NewClient(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, client)

	_, err = NewClient(context.Background(), "::not a url")
	assert.Error(t, err)
}

func TestContentCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	c := NewContentCache(client, 0, nil)

	ctx := context.Background()
	c.Set(ctx, []byte("x"))
	_, ok := c.Get(ctx)
	assert.False(t, ok)
	c.Invalidate(ctx)
}

func TestContentCache_Redis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	url, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	client, err := NewClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := NewContentCache(client, time.Minute, zap.NewNop())

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	c.Set(ctx, []byte(`{"assets":{},"products":[]}`))
	b, ok := c.Get(ctx)
	require.True(t, ok)
	assert.JSONEq(t, `{"assets":{},"products":[]}`, string(b))

	ttl, err := client.TTL(ctx, contentKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	c.Invalidate(ctx)
	_, ok = c.Get(ctx)
	assert.False(t, ok)
}
