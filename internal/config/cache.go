package config

import (
	"os"
	"strconv"
	"time"
)

// RouteCacheConfig defines settings for the Redis response cache that
// fronts the route list endpoint.  When Enabled is false or no Redis
// client is configured, caching is disabled and requests fall through to
// the in-process route cache.  TTL defines the lifetime of cached
// responses; MaxBodyBytes caps the size of responses worth storing.
type RouteCacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadRouteCacheConfig reads environment variables to build a
// RouteCacheConfig.  Defaults are used when variables are not set.
func LoadRouteCacheConfig() RouteCacheConfig {
	return RouteCacheConfig{
		Enabled:      getenv("ROUTE_CACHE_ENABLED", "true") == "true",
		TTL:          parseDur(getenv("ROUTE_CACHE_TTL", "5m")),
		Prefix:       getenv("ROUTE_CACHE_PREFIX", "routes"),
		MaxBodyBytes: atoi(getenv("ROUTE_CACHE_MAX_BODY_BYTES", "1048576")),
	}
}

// Helper functions shared with redis.go and ratelimit.go
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Minute
	}
	return d
}
