// internal/cache/cache.go
// Redis-backed cache for rendered standings/bracket views, and the
// distributed lock serializing reschedule_all across server replicas.

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with the JSON marshal/unmarshal convenience
// the rest of the service expects.
type Cache struct {
	client *redis.Client
	logger *log.Logger
}

// New builds a Cache around an already-connected Redis client.
func New(client *redis.Client, logger *log.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// Set stores a value with expiration.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}
	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

// Get retrieves a value, returning ErrMiss if the key is absent.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache: get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache: unmarshal: %w", err)
	}
	return nil
}

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = fmt.Errorf("cache: key not found")

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: delete: %w", err)
	}
	return nil
}

// Increment bumps a counter key, resetting its expiration, for the
// request-rate-limiter middleware.
func (c *Cache) Increment(ctx context.Context, key string, expiration time.Duration) (int, error) {
	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiration)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("cache: increment: %w", err)
	}
	return int(incr.Val()), nil
}

// SetNX acquires a distributed lock: it succeeds only if the key does not
// already exist, expiring automatically after ttl so a crashed holder
// doesn't wedge the lock forever.
func (c *Cache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("cache: marshal: %w", err)
	}
	ok, err := c.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache: setnx: %w", err)
	}
	return ok, nil
}

// Unlock releases a SetNX-acquired lock.
func (c *Cache) Unlock(ctx context.Context, key string) error {
	return c.Delete(ctx, key)
}

// InvalidatePattern deletes every key matching a glob pattern. The
// scheduling service does not call it; it deletes the exact standings and
// bracket keys with Delete after a mutation.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) error {
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("cache: keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache: delete keys: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity. The health endpoint does not call it; it
// pings Redis through the database connections instead.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// RescheduleLockKey is the SetNX key guarding a tournament's reschedule_all.
func RescheduleLockKey(tournamentID string) string {
	return fmt.Sprintf("lock:reschedule:%s", tournamentID)
}

// StandingsKey is the cache key for a category's rendered standings.
func StandingsKey(tournamentID, category string) string {
	return fmt.Sprintf("standings:%s:%s", tournamentID, category)
}

// BracketKey is the cache key for a category's rendered bracket view.
func BracketKey(tournamentID, category string) string {
	return fmt.Sprintf("bracket:%s:%s", tournamentID, category)
}
