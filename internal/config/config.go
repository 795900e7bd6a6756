// Package config loads moodcast settings from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import "time"

// Config is the full application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	OpenWeather OpenWeatherConfig `koanf:"openweather"`
	Catalog     CatalogConfig     `koanf:"catalog"`
	Audius      AudiusConfig      `koanf:"audius"`
	Spotify     SpotifyConfig     `koanf:"spotify"`
	Recommend   RecommendConfig   `koanf:"recommend"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout       time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// RateLimit is requests per minute per client IP. Zero disables it.
	RateLimit   int      `koanf:"rate_limit" validate:"gte=0"`
	CORSOrigins []string `koanf:"cors_origins"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type OpenWeatherConfig struct {
	APIKey     string        `koanf:"api_key"`
	GeoURL     string        `koanf:"geo_url" validate:"required,url"`
	WeatherURL string        `koanf:"weather_url" validate:"required,url"`
	Timeout    time.Duration `koanf:"timeout" validate:"gt=0"`
	RPS        float64       `koanf:"rps" validate:"gt=0"`
	Burst      int           `koanf:"burst" validate:"gte=1"`
	// CacheTTL of zero disables the weather cache.
	CacheTTL   time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	MaxRetries int           `koanf:"max_retries" validate:"gte=1"`
}

type CatalogConfig struct {
	Provider      string        `koanf:"provider" validate:"oneof=audius spotify"`
	SearchLimit   int           `koanf:"search_limit" validate:"gte=1,lte=50"`
	MaxQueries    int           `koanf:"max_queries" validate:"gte=1"`
	SearchTimeout time.Duration `koanf:"search_timeout" validate:"gt=0"`
	Concurrency   int           `koanf:"concurrency" validate:"gte=1"`
	MaxRetries    int           `koanf:"max_retries" validate:"gte=1"`
	RetryBackoff  time.Duration `koanf:"retry_backoff" validate:"gt=0"`
	Breaker       BreakerConfig `koanf:"breaker"`
}

type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests" validate:"gte=1"`
	Interval     time.Duration `koanf:"interval" validate:"gt=0"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	MinRequests  uint32        `koanf:"min_requests" validate:"gte=1"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
}

type AudiusConfig struct {
	DiscoveryURL string        `koanf:"discovery_url" validate:"required,url"`
	FallbackHost string        `koanf:"fallback_host" validate:"required,url"`
	DiscoveryTTL time.Duration `koanf:"discovery_ttl" validate:"gt=0"`
	AppName      string        `koanf:"app_name" validate:"required"`
	APIKey       string        `koanf:"api_key"`
}

type SpotifyConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	TokenURL     string `koanf:"token_url" validate:"required,url"`
	BaseURL      string `koanf:"base_url" validate:"required,url"`
}

type RecommendConfig struct {
	Strategy string `koanf:"strategy" validate:"oneof=ranked random"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8000",
			ReadHeaderTimeout: 15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimit:         120,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		OpenWeather: OpenWeatherConfig{
			GeoURL:     "https://api.openweathermap.org/geo/1.0/direct",
			WeatherURL: "https://api.openweathermap.org/data/2.5/weather",
			Timeout:    10 * time.Second,
			RPS:        1,
			Burst:      5,
			CacheTTL:   5 * time.Minute,
			MaxRetries: 2,
		},
		Catalog: CatalogConfig{
			Provider:      "audius",
			SearchLimit:   10,
			MaxQueries:    6,
			SearchTimeout: 10 * time.Second,
			Concurrency:   4,
			MaxRetries:    2,
			RetryBackoff:  300 * time.Millisecond,
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Audius: AudiusConfig{
			DiscoveryURL: "https://api.audius.co",
			FallbackHost: "https://discoveryprovider.audius.co",
			DiscoveryTTL: 30 * time.Minute,
			AppName:      "moodcast",
		},
		Spotify: SpotifyConfig{
			TokenURL: "https://accounts.spotify.com/api/token",
			BaseURL:  "https://api.spotify.com",
		},
		Recommend: RecommendConfig{
			Strategy: "ranked",
		},
	}
}
