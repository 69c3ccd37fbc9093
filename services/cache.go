package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache is an optional Redis-backed read cache for summary endpoints. A nil
// *Cache is valid and disables caching, so callers never branch on config.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(redisURL string, ttl time.Duration) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// GetJSON loads a cached value into dest, reporting whether it was present.
func (c *Cache) GetJSON(key string, dest interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.rdb.Get(context.Background(), key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON stores a value under key for the cache TTL. Failures are ignored;
// the cache is advisory.
func (c *Cache) SetJSON(key string, value interface{}) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(context.Background(), key, data, c.ttl)
}

// Invalidate drops cached keys after a write.
func (c *Cache) Invalidate(keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.rdb.Del(context.Background(), keys...)
}
