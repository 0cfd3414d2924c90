// Package rediscache persists the cached configuration document in Redis,
// letting several processes share a single configuration slot.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKey = "remoteconfig:document"

// Config carries the Redis connection settings plus the cache key and TTL.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int

	// Key is the Redis key the document is stored under. Defaults to
	// "remoteconfig:document".
	Key string

	// TTL bounds how long a cached document survives without a refresh.
	// Zero means no expiry.
	TTL time.Duration
}

// Cache stores a single configuration document as a JSON value in Redis.
type Cache[T any] struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// New connects to Redis and returns a Cache backed by it.
func New[T any](ctx context.Context, cfg Config) (*Cache[T], error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = defaultKey
	}

	return &Cache[T]{client: client, key: key, ttl: cfg.TTL}, nil
}

// NewWithClient wraps an existing Redis client, sharing its connection pool.
func NewWithClient[T any](client *redis.Client, key string, ttl time.Duration) *Cache[T] {
	if key == "" {
		key = defaultKey
	}
	return &Cache[T]{client: client, key: key, ttl: ttl}
}

// Read returns the cached document, or nil when the key is absent.
func (c *Cache[T]) Read(ctx context.Context) (*T, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached configuration: %w", err)
	}

	value := new(T)
	if err := json.Unmarshal(payload, value); err != nil {
		return nil, fmt.Errorf("failed to decode cached configuration: %w", err)
	}
	return value, nil
}

// Write replaces the cached document. A nil value clears the slot.
func (c *Cache[T]) Write(ctx context.Context, value *T) error {
	if value == nil {
		if err := c.client.Del(ctx, c.key).Err(); err != nil {
			return fmt.Errorf("failed to clear cached configuration: %w", err)
		}
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cached configuration: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Cache[T]) Close() error {
	return c.client.Close()
}
