package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const scanBatch = 100

// ViewCache is a generic JSON-backed Redis cache for read model projections.
// Bind it to a specific view type T; each instance holds a Redis client and an
// optional TTL (pass 0 for keys that should not expire).
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewViewCache creates a ViewCache backed by the provided Redis client.
func NewViewCache[T any](client *goredis.Client, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl}
}

// Get retrieves and unmarshals a value from Redis.
// Returns (nil, false) on any miss or deserialisation error.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("view cache read failed")
		}
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("view cache entry corrupt")
		return nil, false
	}
	return &v, true
}

// Set marshals value and stores it in Redis under key.
// Errors are logged rather than returned: a failed cache write is non-fatal.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("view cache marshal failed")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("view cache write failed")
	}
}

// DeletePrefix removes every key starting with prefix and reports how many
// were deleted. Keys are found with SCAN so Redis is never blocked by KEYS.
func (c *ViewCache[T]) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
