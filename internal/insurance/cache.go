package insurance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const defaultCacheKey = "insurance:catalog:v1"

// Cached serves the catalog from Redis and falls back to Source on a miss.
// Redis failures are logged, never returned.
type Cached struct {
	Source Source
	Redis  *redis.Client
	Key    string
	TTL    time.Duration
	Log    *logrus.Entry
}

func (c Cached) key() string {
	if c.Key == "" {
		return defaultCacheKey
	}
	return c.Key
}

func (c Cached) List(ctx context.Context) (Catalog, error) {
	if c.Redis == nil {
		return c.Source.List(ctx)
	}

	b, err := c.Redis.Get(ctx, c.key()).Bytes()
	switch {
	case err == nil:
		var cat Catalog
		if err := json.Unmarshal(b, &cat); err == nil {
			return cat, nil
		}
		c.warn(err, "decode cached insurance catalog")
	case !errors.Is(err, redis.Nil):
		c.warn(err, "read cached insurance catalog")
	}

	cat, err := c.Source.List(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(cat); err == nil {
		if err := c.Redis.Set(ctx, c.key(), b, c.TTL).Err(); err != nil {
			c.warn(err, "write cached insurance catalog")
		}
	}
	return cat, nil
}

// Invalidate drops the cached catalog. cmd/dev/migrate calls it after a migration run.
func (c Cached) Invalidate(ctx context.Context) error {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Del(ctx, c.key()).Err()
}

func (c Cached) warn(err error, msg string) {
	if c.Log != nil {
		c.Log.WithError(err).Warn(msg)
	}
}
