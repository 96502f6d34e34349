package fetch

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Cache stores fetched model bytes in Redis, keyed by source URL. It lets
// repeated loads of the same remote model skip the network.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// CacheOption configures the cache.
type CacheOption func(*Cache)

// WithTTL sets the expiration of cached downloads.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cached downloads.
func WithPrefix(prefix string) CacheOption {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// NewCache creates a download cache over an existing Redis client.
func NewCache(client *backend.Client, opts ...CacheOption) *Cache {
	c := &Cache{
		client: client,
		prefix: "annet:fetch:",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) key(url string) string {
	return c.prefix + url
}

// Get returns the cached bytes for the URL, or ok=false on a miss.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.key(url)).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read download cache: %w", err)
	}
	return data, true, nil
}

// Put stores the bytes for the URL with the configured TTL.
func (c *Cache) Put(ctx context.Context, url string, data []byte) error {
	if err := c.client.Set(ctx, c.key(url), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write download cache: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
