package memo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"

	"geotag/internal/logging"
)

// Stats reports cache activity since construction.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
	Capacity  int
}

// Cache is a bounded memoizing cache with FIFO eviction.
//
// All operations hold one lock across lookup, computation, insertion, and
// eviction, so the mapping and the eviction order never diverge.
type Cache struct {
	mu      sync.Mutex
	image   *Image
	maxSize int
	lastHit bool
	stats   Stats
	logger  *slog.Logger
}

// New wraps image in a cache holding at most maxSize results. A nil image
// starts empty. If the image already exceeds maxSize the oldest entries are
// evicted immediately.
func New(image *Image, maxSize int, logger *slog.Logger) *Cache {
	if image == nil {
		image = NewImage()
	}
	if image.Entries == nil {
		image.Entries = make(map[string]string)
	}
	if maxSize < 0 {
		maxSize = 0
	}
	c := &Cache{
		image:   image,
		maxSize: maxSize,
		logger:  logging.NewComponentLogger(logger, "memo"),
	}
	c.evictLocked()
	return c
}

// Do returns the result stored under key, or runs compute, stores its result,
// and evicts the oldest entries while the cache is over capacity. When compute
// fails nothing is stored and its error is returned unchanged.
func (c *Cache) Do(key string, compute func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if raw, ok := c.image.Entries[key]; ok {
		c.lastHit = true
		c.stats.Hits++
		c.logger.Debug("cache hit", logging.String("key", key))
		return []byte(raw), nil
	}

	c.lastHit = false
	c.stats.Misses++
	value, err := compute()
	if err != nil {
		return nil, err
	}

	c.image.Entries[key] = string(value)
	c.image.Order = append(c.image.Order, key)
	c.evictLocked()
	return value, nil
}

// Contains reports whether key is cached without touching hit statistics.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.image.Entries[key]
	return ok
}

// LastHit reports whether the most recent Do call was served from the cache.
func (c *Cache) LastHit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastHit
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	stats.Entries = len(c.image.Entries)
	stats.Capacity = c.maxSize
	return stats
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.image.Entries)
}

// Keys returns cached keys oldest first.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.image.Order...)
}

// SetMaxSize changes the capacity, evicting oldest entries while over it.
func (c *Cache) SetMaxSize(maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if maxSize < 0 {
		maxSize = 0
	}
	c.maxSize = maxSize
	c.evictLocked()
}

// Clear drops every cached result.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.image.Entries = make(map[string]string)
	c.image.Order = []string{}
}

// Snapshot returns a deep copy of the cache state suitable for persisting.
func (c *Cache) Snapshot() *Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.image.Clone()
}

func (c *Cache) evictLocked() {
	for len(c.image.Entries) > c.maxSize && len(c.image.Order) > 0 {
		oldest := c.image.Order[0]
		c.image.Order = c.image.Order[1:]
		delete(c.image.Entries, oldest)
		c.stats.Evictions++
		c.logger.Debug("cache eviction", logging.String("key", oldest))
	}
}

// Key builds the cache key for a call: the namespace followed by the JSON
// encoding of the arguments, e.g. geocode([-4.3,55.7]).
func Key(namespace string, args ...any) (string, error) {
	if args == nil {
		args = []any{}
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode %s cache key: %w", namespace, err)
	}
	return namespace + "(" + string(encoded[1:len(encoded)-1]) + ")", nil
}

// Memoize wraps fn so results are served from c when the same argument was seen
// before. A nil cache returns fn unchanged.
func Memoize[A, V any](c *Cache, namespace string, fn func(context.Context, A) (V, error)) func(context.Context, A) (V, error) {
	if c == nil {
		return fn
	}
	return func(ctx context.Context, arg A) (V, error) {
		var zero V
		key, err := Key(namespace, arg)
		if err != nil {
			return zero, err
		}
		raw, err := c.Do(key, func() ([]byte, error) {
			value, err := fn(ctx, arg)
			if err != nil {
				return nil, err
			}
			encoded, encErr := json.Marshal(value)
			if encErr != nil {
				return nil, fmt.Errorf("encode %s result: %w", namespace, encErr)
			}
			return encoded, nil
		})
		if err != nil {
			return zero, err
		}
		var out V
		if err := json.Unmarshal(raw, &out); err != nil {
			return zero, fmt.Errorf("decode cached %s result: %w", namespace, err)
		}
		return out, nil
	}
}
