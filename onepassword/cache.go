package onepassword

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// defaultCacheTTL is how long a successful query result is served from
// cache before the op CLI is consulted again.
const defaultCacheTTL = 6500 * time.Millisecond

// queryCache memoizes successful query results per call signature for
// a fixed TTL. Entries are not actively evicted, only treated as stale
// on lookup. Duplicate concurrent fetches for one key are collapsed
// into a single flight so each redundant caller does not spawn its own
// process. Failed fetches are never cached.
type queryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	flight  singleflight.Group
}

type cacheEntry struct {
	value    any
	storedAt time.Time
}

func newQueryCache(ttl time.Duration, now func() time.Time) *queryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &queryCache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

func (c *queryCache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.value, true
}

func (c *queryCache) store(key string, value any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

// do returns the cached value for key, or runs fetch once (shared
// across concurrent callers) and caches the result on success.
func (c *queryCache) do(key string, fetch func() (any, error)) (any, error) {
	if value, ok := c.lookup(key); ok {
		return value, nil
	}
	value, err, _ := c.flight.Do(key, func() (any, error) {
		// A previous flight may have populated the entry while this
		// caller was queued behind it.
		if value, ok := c.lookup(key); ok {
			return value, nil
		}
		value, err := fetch()
		if err != nil {
			return nil, err
		}
		c.store(key, value)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// fetchCached is the typed front of queryCache.do.
func fetchCached[T any](cache *queryCache, key string, fetch func() (T, error)) (T, error) {
	value, err := cache.do(key, func() (any, error) { return fetch() })
	if err != nil {
		var zero T
		return zero, err
	}
	return value.(T), nil
}

// cacheKey builds a call-signature key from the operation name, the
// session token, and every positional argument.
func cacheKey(operation, token string, args ...string) string {
	parts := append([]string{operation, token}, args...)
	return strings.Join(parts, "\x1f")
}
