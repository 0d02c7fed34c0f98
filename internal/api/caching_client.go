package api

import (
	"context"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CharlesIC/fourth-wall/internal/metrics"
)

// Cache stores raw response bodies with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// CachingFetcher wraps a Fetcher with response caching.
// Follows Decorator pattern to add caching without modifying the underlying fetcher.
type CachingFetcher struct {
	fetcher  Fetcher
	cache    Cache
	duration time.Duration
	logger   *zap.Logger
}

// NewCachingFetcher creates a caching wrapper. A zero duration disables caching.
func NewCachingFetcher(fetcher Fetcher, cache Cache, duration time.Duration, logger *zap.Logger) *CachingFetcher {
	return &CachingFetcher{
		fetcher:  fetcher,
		cache:    cache,
		duration: duration,
		logger:   logger,
	}
}

// Fetch returns a cached body when fresh, otherwise fetches and stores it.
// Failures are never cached.
func (c *CachingFetcher) Fetch(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	if c.duration <= 0 {
		return c.fetcher.Fetch(ctx, rawURL, params)
	}

	key, err := RequestURL(rawURL, params)
	if err != nil {
		return nil, err
	}

	// Try cache first
	if body, found := c.cache.Get(ctx, key); found {
		metrics.CacheHitsTotal.Inc()
		c.logger.Debug("cache hit", zap.String("key", key))
		return body, nil
	}

	// Cache miss - fetch from underlying fetcher
	body, err := c.fetcher.Fetch(ctx, rawURL, params)
	if err != nil {
		return nil, err
	}

	c.cache.Set(ctx, key, body, c.duration)
	return body, nil
}

// MemoryCache implements a thread-safe in-process TTL cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// cacheEntry holds a cached value with expiry time.
type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty cache. Call Close to stop its cleanup goroutine.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	go c.cleanup(time.Minute)

	return c
}

// Get retrieves a value from cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	// Check if entry has expired
	if c.now().After(entry.expiresAt) {
		return nil, false
	}

	return entry.value, true
}

// Set stores a value in cache with TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Close stops the cleanup goroutine.
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// cleanup periodically removes expired entries.
func (c *MemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.purge()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
