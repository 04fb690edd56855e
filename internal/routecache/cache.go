// Package routecache serves the origin/destination reference data used by
// the search flow.  The data changes rarely but is requested by every
// search screen, so it sits behind a process-wide TTL cache with
// single-flight semantics: any number of concurrent callers during a miss
// cost exactly one upstream fetch.
package routecache

import (
	"context"
	"time"

	"github.com/iliyamo/bus-ticket-booking/internal/flight"
	"github.com/iliyamo/bus-ticket-booking/internal/model"
	"github.com/iliyamo/bus-ticket-booking/internal/provider"
)

// TTL is how long a fetched route list keeps serving reads.
const TTL = 5 * time.Minute

// Cache is the shared route-data cache.  Safe for concurrent use across
// sessions; a fetch failure is returned to the callers that shared it but
// is never cached, so the next call retries.
type Cache struct {
	cache *flight.Cache[model.RouteData]
}

// New builds a Cache over the given provider.
func New(p provider.RouteProvider) *Cache {
	return &Cache{cache: flight.NewCache(TTL, p.Fetch)}
}

// Get returns the route data, from cache when fresh.  With force set the
// cached value is discarded first and a new fetch is issued; a fetch that
// was already outstanding completes for its waiters but cannot overwrite
// the refreshed data.
func (c *Cache) Get(ctx context.Context, force bool) (model.RouteData, error) {
	return c.cache.Get(ctx, force)
}

// Invalidate drops the cached route data without fetching.
func (c *Cache) Invalidate() {
	c.cache.Invalidate()
}
