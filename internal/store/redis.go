package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
)

const feedCacheTTL = 30 * time.Second

const feedCacheKey = "feed:categorizer:messages"

// RedisCache caches the mapped categorizer feed so repeated worklist loads
// don't hit the read model on every request. The cache is best-effort: any
// Redis failure falls through to the read model.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Client exposes the underlying client for middleware that shares the
// connection.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// GetFeed returns the cached feed messages, or ok=false on miss or error.
func (c *RedisCache) GetFeed(ctx context.Context) ([]models.Message, bool) {
	data, err := c.client.Get(ctx, feedCacheKey).Bytes()
	if err != nil {
		return nil, false
	}

	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, false
	}
	return msgs, true
}

// SetFeed stores the mapped feed messages with a short TTL.
func (c *RedisCache) SetFeed(ctx context.Context, msgs []models.Message) {
	data, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	c.client.Set(ctx, feedCacheKey, data, feedCacheTTL)
}

// InvalidateFeed drops the cached feed, forcing the next load to hit the
// read model. Called after a successful refresh.
func (c *RedisCache) InvalidateFeed(ctx context.Context) {
	c.client.Del(ctx, feedCacheKey)
}
