package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// JSON stores JSON-encoded values in Redis. A nil *JSON, or one built
// around a nil client, is a valid no-op cache that always misses.
type JSON struct {
	rdb    *redis.Client
	prefix string
}

func NewJSON(rdb *redis.Client, prefix string) *JSON {
	return &JSON{rdb: rdb, prefix: prefix}
}

func (c *JSON) enabled() bool { return c != nil && c.rdb != nil }

// Get retrieves a value and unmarshals it into dest. The bool reports a hit.
func (c *JSON) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(val, dest)
}

func (c *JSON) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.enabled() || ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, b, ttl).Err()
}

func (c *JSON) Delete(ctx context.Context, key string) error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Del(ctx, c.prefix+key).Err()
}
