package resilience

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
	"github.com/ewilliams-labs/moodcast/internal/logging"
	"github.com/ewilliams-labs/moodcast/internal/metrics"
)

// CachedWeather keeps successful observations per location for a TTL.
// Failures are never cached.
type CachedWeather struct {
	next ports.WeatherProvider
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	obs      domain.WeatherObservation
	storedAt time.Time
}

// compile-time interface assertion
var _ ports.WeatherProvider = (*CachedWeather)(nil)

// NewCachedWeather wraps next. A nil now uses time.Now.
func NewCachedWeather(next ports.WeatherProvider, ttl time.Duration, now func() time.Time) *CachedWeather {
	if now == nil {
		now = time.Now
	}
	return &CachedWeather{
		next:    next,
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// FetchWeather serves from cache when fresh.
func (c *CachedWeather) FetchWeather(ctx context.Context, location string) (domain.WeatherObservation, error) {
	key := strings.ToLower(strings.TrimSpace(location))

	c.mu.RLock()
	entry, found := c.entries[key]
	c.mu.RUnlock()

	if found && c.now().Sub(entry.storedAt) < c.ttl {
		metrics.WeatherCacheHits.Inc()
		logging.Ctx(ctx).Debug().Str("location", key).Dur("age", c.now().Sub(entry.storedAt)).Msg("weather cache hit")
		return entry.obs, nil
	}
	metrics.WeatherCacheMisses.Inc()

	obs, err := c.next.FetchWeather(ctx, location)
	if err != nil {
		return domain.WeatherObservation{}, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{obs: obs, storedAt: c.now()}
	c.evictExpiredLocked()
	c.mu.Unlock()

	return obs, nil
}

// evictExpiredLocked drops stale entries. Callers hold mu.
func (c *CachedWeather) evictExpiredLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of cached locations.
func (c *CachedWeather) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
