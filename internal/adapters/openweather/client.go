// Package openweather resolves a location with the OpenWeather geocoding
// API and fetches its current conditions.
package openweather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ewilliams-labs/moodcast/internal/adapters/transport"
	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
)

const (
	DefaultGeoURL     = "https://api.openweathermap.org/geo/1.0/direct"
	DefaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

	providerName = "openweather"
)

// Options configures a Client. Zero values use defaults.
type Options struct {
	GeoURL      string
	WeatherURL  string
	HTTPClient  *http.Client
	Timeout     time.Duration
	MaxRetries  int
	BaseBackoff time.Duration
}

// Client implements ports.WeatherProvider against OpenWeather.
type Client struct {
	apiKey     string
	geoURL     string
	weatherURL string
	http       *transport.Client
}

// compile-time interface assertion
var _ ports.WeatherProvider = (*Client)(nil)

// NewClient constructs a Client. An empty API key is a configuration error.
func NewClient(apiKey string, opts Options) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("openweather: api key is empty: %w", domain.ErrConfigurationMissing)
	}
	if opts.GeoURL == "" {
		opts.GeoURL = DefaultGeoURL
	}
	if opts.WeatherURL == "" {
		opts.WeatherURL = DefaultWeatherURL
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     apiKey,
		geoURL:     opts.GeoURL,
		weatherURL: opts.WeatherURL,
		http: transport.NewClient(transport.Options{
			Provider:    providerName,
			HTTPClient:  opts.HTTPClient,
			MaxRetries:  opts.MaxRetries,
			BaseBackoff: opts.BaseBackoff,
		}),
	}, nil
}

// FetchWeather geocodes location and returns its current weather.
func (c *Client) FetchWeather(ctx context.Context, location string) (domain.WeatherObservation, error) {
	place, err := c.geocode(ctx, location)
	if err != nil {
		return domain.WeatherObservation{}, err
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(place.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(place.Lon, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	var raw currentWeather
	if err := c.http.GetJSON(ctx, c.weatherURL+"?"+params.Encode(), nil, &raw); err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("openweather: current weather for %q: %w", location, notFoundOn404(err))
	}

	obs := toObservation(raw)
	obs.Location = domain.Location{Name: place.Name, Lat: place.Lat, Lon: place.Lon}
	if obs.Location.Name == "" {
		obs.Location.Name = location
	}
	return obs, nil
}

func (c *Client) geocode(ctx context.Context, location string) (geoPlace, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("limit", "1")
	params.Set("appid", c.apiKey)

	var places []geoPlace
	if err := c.http.GetJSON(ctx, c.geoURL+"?"+params.Encode(), nil, &places); err != nil {
		return geoPlace{}, fmt.Errorf("openweather: geocode %q: %w", location, notFoundOn404(err))
	}
	if len(places) == 0 {
		return geoPlace{}, fmt.Errorf("openweather: geocode %q: %w", location, domain.ErrNotFound)
	}
	return places[0], nil
}

func notFoundOn404(err error) error {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return err
}

func toObservation(raw currentWeather) domain.WeatherObservation {
	var condition, description string
	if len(raw.Weather) > 0 {
		condition = raw.Weather[0].Main
		description = raw.Weather[0].Description
	}

	obs := domain.NewWeatherObservation(condition, description)
	obs.Temperature = raw.Main.Temp
	obs.FeelsLike = raw.Main.Temp
	if raw.Main.FeelsLike != nil {
		obs.FeelsLike = *raw.Main.FeelsLike
	}
	if raw.Main.Humidity != nil {
		obs.Humidity = *raw.Main.Humidity
	}
	if raw.Main.Pressure != nil {
		obs.Pressure = *raw.Main.Pressure
	}
	if raw.Visibility != nil {
		obs.Visibility = *raw.Visibility
	}
	obs.WindSpeed = raw.Wind.Speed
	if raw.Wind.Gust != nil {
		obs.WindGust = *raw.Wind.Gust
	}
	obs.CloudCover = raw.Clouds.All
	obs.ObservedAt = raw.Dt
	obs.Sunrise = raw.Sys.Sunrise
	obs.Sunset = raw.Sys.Sunset
	return obs
}
