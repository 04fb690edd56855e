package routecache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
	"github.com/iliyamo/bus-ticket-booking/internal/provider"
	"github.com/iliyamo/bus-ticket-booking/internal/routecache"
)

func TestGetSharesOneUpstreamFetch(t *testing.T) {
	var fetches atomic.Int64
	release := make(chan struct{})
	c := routecache.New(provider.RouteProviderFunc(func(ctx context.Context) (model.RouteData, error) {
		fetches.Add(1)
		<-release
		return model.RouteData{
			Sources:      []string{"Mumbai", "Pune"},
			Destinations: []string{"Goa", "Nashik"},
		}, nil
	}))

	const callers = 12
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := c.Get(context.Background(), false)
			require.NoError(t, err)
			assert.Equal(t, []string{"Mumbai", "Pune"}, data.Sources)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), fetches.Load(), "every concurrent search screen costs one upstream call")

	// A later call within the TTL is served from cache.
	_, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetches.Load())
}

func TestGetForceRefreshes(t *testing.T) {
	var fetches atomic.Int64
	c := routecache.New(provider.RouteProviderFunc(func(ctx context.Context) (model.RouteData, error) {
		n := fetches.Add(1)
		if n == 1 {
			return model.RouteData{Sources: []string{"Mumbai"}}, nil
		}
		return model.RouteData{Sources: []string{"Mumbai", "Surat"}}, nil
	}))

	data, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, data.Sources, 1)

	data, err = c.Get(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, data.Sources, 2, "force bypasses the cached value")
	assert.Equal(t, int64(2), fetches.Load())
}

func TestGetFailureIsNotCached(t *testing.T) {
	var fetches atomic.Int64
	c := routecache.New(provider.RouteProviderFunc(func(ctx context.Context) (model.RouteData, error) {
		if fetches.Add(1) == 1 {
			return model.RouteData{}, errors.New("operator api unreachable")
		}
		return model.RouteData{Sources: []string{"Mumbai"}}, nil
	}))

	_, err := c.Get(context.Background(), false)
	require.Error(t, err)

	data, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mumbai"}, data.Sources)
}

func TestInvalidateForcesNextFetch(t *testing.T) {
	var fetches atomic.Int64
	c := routecache.New(provider.RouteProviderFunc(func(ctx context.Context) (model.RouteData, error) {
		fetches.Add(1)
		return model.RouteData{}, nil
	}))

	_, err := c.Get(context.Background(), false)
	require.NoError(t, err)
	c.Invalidate()
	_, err = c.Get(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetches.Load())
}
