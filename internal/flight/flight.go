// Package flight provides the two "do at most once concurrently"
// primitives the booking service relies on: a TTL cache whose concurrent
// misses share one underlying fetch, and a latch that admits exactly one
// in-flight operation.  Both paths previously tend to grow as ad hoc
// boolean flags; centralizing them here keeps the concurrency logic in one
// tested place.
package flight

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Latch admits one holder at a time.  TryAcquire is a true compare-and-set,
// so two goroutines racing for the latch cannot both win.  It is used to
// guarantee a booking submission is never issued twice for one session.
type Latch struct {
	busy atomic.Bool
}

// TryAcquire attempts to take the latch.  It returns false when another
// holder is still in flight.
func (l *Latch) TryAcquire() bool {
	return l.busy.CompareAndSwap(false, true)
}

// Release frees the latch.  Callers must release in a defer so a failed
// operation can be retried.
func (l *Latch) Release() {
	l.busy.Store(false)
}

// InFlight reports whether the latch is currently held.
func (l *Latch) InFlight() bool {
	return l.busy.Load()
}

// Cache caches the result of a fetch function for a fixed TTL.  Concurrent
// callers during a miss share a single outstanding fetch instead of each
// issuing their own.  A failed fetch is not cached, so the next call
// retries.  Forced refreshes bump a generation counter; a fetch that was
// outstanding when the refresh happened still completes for its waiters,
// but its result is discarded rather than written over the newer data.
type Cache[T any] struct {
	ttl   time.Duration
	fetch func(context.Context) (T, error)

	group singleflight.Group

	mu        sync.RWMutex
	val       T
	fetchedAt time.Time
	has       bool
	gen       uint64
}

// NewCache builds a Cache around fetch with the given TTL.
func NewCache[T any](ttl time.Duration, fetch func(context.Context) (T, error)) *Cache[T] {
	return &Cache[T]{ttl: ttl, fetch: fetch}
}

// Get returns the cached value when it is still fresh, otherwise fetches.
// With force set the cached value is bypassed and invalidated first.  All
// callers that arrive while a fetch is outstanding receive that fetch's
// result (or error) without triggering another one.
func (c *Cache[T]) Get(ctx context.Context, force bool) (T, error) {
	if force {
		c.Invalidate()
	} else {
		c.mu.RLock()
		if c.has && time.Since(c.fetchedAt) < c.ttl {
			v := c.val
			c.mu.RUnlock()
			return v, nil
		}
		c.mu.RUnlock()
	}

	v, err, _ := c.group.Do("fetch", func() (interface{}, error) {
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		val, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if gen == c.gen {
			c.val = val
			c.fetchedAt = time.Now()
			c.has = true
		}
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops the cached value and marks any outstanding fetch stale
// so its late result cannot overwrite fresher data.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.has = false
	var zero T
	c.val = zero
	c.mu.Unlock()
	c.group.Forget("fetch")
}

// Cached returns the cached value and whether it is still within TTL,
// without ever triggering a fetch.
func (c *Cache[T]) Cached() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.has && time.Since(c.fetchedAt) < c.ttl {
		return c.val, true
	}
	var zero T
	return zero, false
}
