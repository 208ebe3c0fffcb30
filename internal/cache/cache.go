// Package cache is an optional Redis-backed cache for generated completions.
// A nil *Cache is valid and turns every operation into a no-op, so the
// service runs unchanged without Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss reports that a key is absent. redis.Nil is mapped to it so callers
// never import the redis package.
var ErrMiss = errors.New("cache miss")

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

// Connect dials Redis and pings it. An empty addr returns (nil, nil): caching
// is simply off.
func Connect(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Cache, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewCache(client, ttl), nil
}

func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if c == nil {
		return ErrMiss
	}
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// Key derives a stable cache key from the request parts that determine the
// completion.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "gen:" + hex.EncodeToString(h.Sum(nil))
}
