package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client wraps the shared Redis client used for session revocations and the
// session event stream.
type Client struct {
	*redis.Client
}

// NewClient creates a client from the given URL and pings it.
// URL format: redis://[:password@]host:port[/db]
func NewClient(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	c := &Client{Client: redis.NewClient(opts)}
	if err := c.Ping(ctx); err != nil {
		_ = c.Client.Close()
		return nil, err
	}
	return c, nil
}

// Ping verifies the connection to Redis.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}
