package ports

import (
	"context"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

// WeatherProvider resolves a free-text location to its current weather.
// Implementations return domain.ErrNotFound for unknown locations and an
// error matching domain.ErrUpstreamUnavailable for transport failures.
type WeatherProvider interface {
	FetchWeather(ctx context.Context, location string) (domain.WeatherObservation, error)
}
