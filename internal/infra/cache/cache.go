package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "astrotrack:cache:"
	tagPrefix = "astrotrack:tag:"
)

// Cache is a read-through JSON cache whose entries are grouped by tags so a
// write can drop every entry it may have staled. A nil *Cache is valid and
// never hits.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetJSON decodes the cached value into out and reports whether it was found.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if c == nil {
		return false, nil
	}
	b, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := sonic.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, tags ...string) error {
	if c == nil {
		return nil
	}
	b, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, keyPrefix+key, b, c.ttl)
		for _, tag := range tags {
			p.SAdd(ctx, tagPrefix+tag, keyPrefix+key)
			// the tag set outlives its entries by at most one ttl
			p.Expire(ctx, tagPrefix+tag, 2*c.ttl)
		}
		return nil
	})
	return err
}

// Invalidate removes every entry stored under any of the tags.
func (c *Cache) Invalidate(ctx context.Context, tags ...string) error {
	if c == nil || len(tags) == 0 {
		return nil
	}
	for _, tag := range tags {
		keys, err := c.rdb.SMembers(ctx, tagPrefix+tag).Result()
		if err != nil {
			return err
		}
		if err := c.rdb.Del(ctx, append(keys, tagPrefix+tag)...).Err(); err != nil {
			return err
		}
	}
	return nil
}
