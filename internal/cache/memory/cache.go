// Package memory provides the default in-process response cache: a
// mutex-guarded map with lazy TTL eviction.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/nexuslabs/relay/internal/domain"
)

// DefaultTTL is the fixed entry lifetime.
const DefaultTTL = time.Hour

type entry struct {
	result    domain.CompletionResult
	createdAt time.Time
}

// Cache implements domain.ResponseCache over a process-local map.
// Best-effort by contract: operations never fail.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewCache creates a new in-memory cache. Non-positive ttl falls back to
// DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Lookup returns the stored result for key if present and not expired.
// Expired entries are evicted here, not proactively.
func (c *Cache) Lookup(_ context.Context, key string) (*domain.CompletionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if c.now().Sub(e.createdAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}

	result := e.result
	return &result, true
}

// Store saves a snapshot of result under key. Last write wins.
func (c *Cache) Store(_ context.Context, key string, result *domain.CompletionResult) {
	if result == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		result:    *result,
		createdAt: c.now(),
	}
}

// Len reports the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
