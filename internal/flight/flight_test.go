package flight_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-ticket-booking/internal/flight"
)

func TestLatchSingleWinner(t *testing.T) {
	var l flight.Latch

	const racers = 64
	var wins atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if l.TryAcquire() {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), wins.Load(), "exactly one racer may take the latch")
	assert.True(t, l.InFlight())

	l.Release()
	assert.False(t, l.InFlight())
	assert.True(t, l.TryAcquire(), "a released latch is reusable")
}

func TestCacheSharesOneFetchAcrossConcurrentMisses(t *testing.T) {
	var fetches atomic.Int64
	release := make(chan struct{})
	c := flight.NewCache(time.Minute, func(ctx context.Context) (string, error) {
		fetches.Add(1)
		<-release
		return "routes", nil
	})

	const callers = 16
	results := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(context.Background(), false)
			require.NoError(t, err)
			results <- v
		}()
	}

	// Give every caller a chance to arrive before the fetch resolves.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	assert.Equal(t, int64(1), fetches.Load(), "concurrent misses share a single fetch")
	for v := range results {
		assert.Equal(t, "routes", v)
	}
}

func TestCacheServesWithinTTLAndRefetchesAfter(t *testing.T) {
	var fetches atomic.Int64
	c := flight.NewCache(40*time.Millisecond, func(ctx context.Context) (int, error) {
		return int(fetches.Add(1)), nil
	})

	v, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "fresh value is served without a fetch")

	time.Sleep(60 * time.Millisecond)
	v, err = c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "expired value triggers a refetch")
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	var fetches atomic.Int64
	fail := atomic.Bool{}
	fail.Store(true)
	c := flight.NewCache(time.Minute, func(ctx context.Context) (string, error) {
		fetches.Add(1)
		if fail.Load() {
			return "", errors.New("upstream down")
		}
		return "routes", nil
	})

	_, err := c.Get(context.Background(), false)
	require.Error(t, err)
	_, ok := c.Cached()
	assert.False(t, ok, "a failed fetch must not poison the cache")

	fail.Store(false)
	v, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "routes", v)
	assert.Equal(t, int64(2), fetches.Load())
}

func TestCacheForceBypassesFreshValue(t *testing.T) {
	var fetches atomic.Int64
	c := flight.NewCache(time.Minute, func(ctx context.Context) (int, error) {
		return int(fetches.Add(1)), nil
	})

	v, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = c.Get(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, v, "force refresh fetches even while the value is fresh")
}

func TestCacheInvalidateDiscardsStaleFetch(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	c := flight.NewCache(time.Minute, func(ctx context.Context) (string, error) {
		var wait bool
		once.Do(func() { wait = true })
		if wait {
			close(entered)
			<-release
			return "stale", nil
		}
		return "fresh", nil
	})

	done := make(chan string, 1)
	go func() {
		v, err := c.Get(context.Background(), false)
		require.NoError(t, err)
		done <- v
	}()
	<-entered

	// Invalidate while the first fetch is still outstanding, then let it
	// settle.  Its waiters receive its value, but the cache must not keep
	// it.
	c.Invalidate()
	close(release)
	assert.Equal(t, "stale", <-done)

	_, ok := c.Cached()
	assert.False(t, ok, "a fetch started before Invalidate cannot repopulate the cache")

	v, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestCachedNeverFetches(t *testing.T) {
	var fetches atomic.Int64
	c := flight.NewCache(time.Minute, func(ctx context.Context) (string, error) {
		fetches.Add(1)
		return "routes", nil
	})

	_, ok := c.Cached()
	assert.False(t, ok)
	assert.Zero(t, fetches.Load())

	_, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	v, ok := c.Cached()
	assert.True(t, ok)
	assert.Equal(t, "routes", v)
	assert.Equal(t, int64(1), fetches.Load())
}
