package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/moodcast/internal/adapters/audius"
	"github.com/ewilliams-labs/moodcast/internal/adapters/memory"
	"github.com/ewilliams-labs/moodcast/internal/adapters/openweather"
	"github.com/ewilliams-labs/moodcast/internal/adapters/resilience"
	"github.com/ewilliams-labs/moodcast/internal/adapters/rest"
	"github.com/ewilliams-labs/moodcast/internal/adapters/spotify"
	"github.com/ewilliams-labs/moodcast/internal/config"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
	"github.com/ewilliams-labs/moodcast/internal/core/services"
	"github.com/ewilliams-labs/moodcast/internal/logging"
)

func main() {
	// 1. Configuration. Crash early when a required key is missing.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Driven adapters.
	weather, err := newWeatherProvider(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize weather provider")
	}

	catalog, err := newCatalog(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("provider", cfg.Catalog.Provider).Msg("failed to initialize catalog")
	}
	breaker := resilience.NewBreakerSearcher(catalog, resilience.BreakerOptions{
		MaxRequests:  cfg.Catalog.Breaker.MaxRequests,
		Interval:     cfg.Catalog.Breaker.Interval,
		Timeout:      cfg.Catalog.Breaker.Timeout,
		MinRequests:  cfg.Catalog.Breaker.MinRequests,
		FailureRatio: cfg.Catalog.Breaker.FailureRatio,
	})

	// 3. Core.
	aggregator := services.NewAggregator(breaker, services.AggregatorOptions{
		SearchLimit:   cfg.Catalog.SearchLimit,
		SearchTimeout: cfg.Catalog.SearchTimeout,
		Concurrency:   cfg.Catalog.Concurrency,
	})
	svc := services.NewOrchestrator(weather, aggregator, memory.NewSessionStore(), services.Options{
		MaxQueries: cfg.Catalog.MaxQueries,
		Strategy:   services.Strategy(cfg.Recommend.Strategy),
	})

	// 4. Driving adapter.
	handler := rest.NewHandler(svc, rest.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
		Ready: func(ctx context.Context) error {
			if breaker.State() == gobreaker.StateOpen {
				return errors.New("catalog circuit breaker is open")
			}
			return nil
		},
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", cfg.Server.Addr).
			Str("catalog", catalog.Name()).
			Str("strategy", cfg.Recommend.Strategy).
			Msg("moodcast api listening")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logging.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("shutdown error")
		}
	}
}

// newWeatherProvider builds the OpenWeather client behind a rate limiter and,
// when enabled, a short-lived cache.
func newWeatherProvider(cfg *config.Config) (ports.WeatherProvider, error) {
	client, err := openweather.NewClient(cfg.OpenWeather.APIKey, openweather.Options{
		GeoURL:     cfg.OpenWeather.GeoURL,
		WeatherURL: cfg.OpenWeather.WeatherURL,
		Timeout:    cfg.OpenWeather.Timeout,
		MaxRetries: cfg.OpenWeather.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	var provider ports.WeatherProvider = resilience.NewRateLimitedWeather(client, cfg.OpenWeather.RPS, cfg.OpenWeather.Burst)
	if cfg.OpenWeather.CacheTTL > 0 {
		provider = resilience.NewCachedWeather(provider, cfg.OpenWeather.CacheTTL, time.Now)
	}
	return provider, nil
}

func newCatalog(ctx context.Context, cfg *config.Config) (ports.CatalogSearcher, error) {
	httpClient := &http.Client{Timeout: cfg.Catalog.SearchTimeout}

	switch cfg.Catalog.Provider {
	case "spotify":
		client, err := spotify.NewClient(ctx, spotify.Options{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			TokenURL:     cfg.Spotify.TokenURL,
			BaseURL:      cfg.Spotify.BaseURL,
			HTTPClient:   httpClient,
			MaxRetries:   cfg.Catalog.MaxRetries,
			BaseBackoff:  cfg.Catalog.RetryBackoff,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		resolver := audius.NewResolver(audius.ResolverOptions{
			DiscoveryURL: cfg.Audius.DiscoveryURL,
			FallbackHost: cfg.Audius.FallbackHost,
			TTL:          cfg.Audius.DiscoveryTTL,
			HTTPClient:   httpClient,
		})
		return audius.NewClient(resolver, audius.Options{
			AppName:     cfg.Audius.AppName,
			APIKey:      cfg.Audius.APIKey,
			HTTPClient:  httpClient,
			MaxRetries:  cfg.Catalog.MaxRetries,
			BaseBackoff: cfg.Catalog.RetryBackoff,
		}), nil
	}
}
