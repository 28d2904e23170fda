// Package redis provides a Redis-backed response cache for deployments
// where completions should survive process restarts or be shared between
// replicas. Behavior matches the in-memory cache: same key scheme, same
// TTL semantics, and strictly best-effort - every Redis failure is logged
// and treated as a miss or a dropped write, never surfaced to the request.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexuslabs/relay/internal/domain"
	"github.com/nexuslabs/relay/internal/observability"
)

const keyPrefix = "relay:response:"

// Cache implements domain.ResponseCache on top of a Redis client.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a Redis-backed response cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

// Lookup fetches and decodes the entry for key. Any transport or decode
// failure counts as a miss.
func (c *Cache) Lookup(ctx context.Context, key string) (*domain.CompletionResult, bool) {
	logger := observability.FromContext(ctx)

	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("cache lookup failed, treating as miss",
				observability.Error(err))
		}
		return nil, false
	}

	var result domain.CompletionResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warn("cached entry undecodable, treating as miss",
			observability.Error(err))
		return nil, false
	}

	return &result, true
}

// Store writes the entry with the configured TTL. Failures are dropped.
func (c *Cache) Store(ctx context.Context, key string, result *domain.CompletionResult) {
	if result == nil {
		return
	}

	logger := observability.FromContext(ctx)

	data, err := json.Marshal(result)
	if err != nil {
		logger.Warn("failed to encode result for cache",
			observability.Error(err))
		return
	}

	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		logger.Warn("cache store failed, dropping entry",
			observability.Error(err))
	}
}
