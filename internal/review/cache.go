package review

import (
	"context"
	"sync"
	"time"

	"promotion-lab/internal/decision"
)

// Cache memoizes evaluations for identical requests within a time
// bucket. It sits outside the pure engine: the engine stays a function
// of its inputs, the cache only decides how often to recompute. Results
// are shared pointers; callers must treat them as read-only.
type Cache struct {
	engine   *Engine
	ttl      time.Duration
	observer func(hit bool)

	mu      sync.Mutex
	entries map[cacheKey]*Result
}

// cacheKey covers every Config field that changes the result; two
// requests share an entry only when all of them match.
type cacheKey struct {
	start    int64 // unix, start date
	deadline int64
	capital  float64
	targets  decision.Targets
	bucket   int64 // clock bucket of width ttl
}

// NewCache wraps an engine with TTL-bucketed memoization.
func NewCache(engine *Engine, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{
		engine:  engine,
		ttl:     ttl,
		entries: make(map[cacheKey]*Result),
	}
}

// WithObserver registers a callback invoked once per Evaluate with
// whether the request was served from the cache.
func (c *Cache) WithObserver(observer func(hit bool)) *Cache {
	c.observer = observer
	return c
}

// Evaluate returns the cached result for this config in the current
// time bucket, computing it on a miss. Stale buckets are dropped on
// every miss so the map stays bounded by the active request shapes.
func (c *Cache) Evaluate(ctx context.Context, cfg Config) (*Result, error) {
	key := cacheKey{
		start:    cfg.StartDate.Unix(),
		deadline: cfg.Deadline.Unix(),
		capital:  cfg.StartingCapital,
		targets:  cfg.Targets,
		bucket:   c.engine.clock().UnixNano() / int64(c.ttl),
	}

	c.mu.Lock()
	if r, ok := c.entries[key]; ok {
		c.mu.Unlock()
		if c.observer != nil {
			c.observer(true)
		}
		return r, nil
	}
	c.mu.Unlock()
	if c.observer != nil {
		c.observer(false)
	}

	r, err := c.engine.Evaluate(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for k := range c.entries {
		if k.bucket != key.bucket {
			delete(c.entries, k)
		}
	}
	c.entries[key] = r
	c.mu.Unlock()

	return r, nil
}
