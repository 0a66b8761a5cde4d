package promo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyAll = "promos:all"

// Cache wraps Redis helpers for the promotion list payload.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetAll unmarshals the cached promotion list into dst. It reports whether the
// key existed.
func (c *Cache) GetAll(ctx context.Context, dst *[]Promotion) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, cacheKeyAll).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetAll serialises the promotion list and stores it with the configured TTL.
func (c *Cache) SetAll(ctx context.Context, promotions []Promotion) error {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(promotions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKeyAll, data, c.ttl).Err()
}

// Invalidate drops the cached list after an admin mutation.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKeyAll).Err()
}
