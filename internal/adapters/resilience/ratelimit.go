package resilience

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
)

// RateLimitedWeather wraps a WeatherProvider with a token bucket.
type RateLimitedWeather struct {
	next    ports.WeatherProvider
	limiter *rate.Limiter
}

// compile-time interface assertion
var _ ports.WeatherProvider = (*RateLimitedWeather)(nil)

// NewRateLimitedWeather allows rps requests per second with the given
// burst. rps may be fractional.
func NewRateLimitedWeather(next ports.WeatherProvider, rps float64, burst int) *RateLimitedWeather {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedWeather{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchWeather waits for a token or for ctx to end, then forwards.
func (r *RateLimitedWeather) FetchWeather(ctx context.Context, location string) (domain.WeatherObservation, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("weather rate limit wait canceled: %w", err)
	}
	return r.next.FetchWeather(ctx, location)
}
