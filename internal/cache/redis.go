// Package cache provides the Redis access layer used for request rate limiting.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides Redis cache access methods.
type Cache struct {
	client *redis.Client
}

// Options tunes the Redis connection pool. Zero values keep the defaults.
type Options struct {
	PoolSize     int
	MinIdleConns int
}

// New creates a new Cache with a Redis client.
func New(ctx context.Context, redisURL string, opts Options) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	if opts.PoolSize > 0 {
		opt.PoolSize = opts.PoolSize
	}
	opt.MinIdleConns = 2
	if opts.MinIdleConns > 0 {
		opt.MinIdleConns = opts.MinIdleConns
	}
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping checks Redis connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// NewFromClient wraps an existing Redis client.
func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Client returns the underlying Redis client.
// Use sparingly - prefer adding methods to Cache.
func (c *Cache) Client() *redis.Client {
	return c.client
}
