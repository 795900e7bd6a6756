package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the variable pointing at a YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched when ConfigPathEnvVar is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// envMappings maps environment variables to config paths. Variables not
// listed are ignored.
var envMappings = map[string]string{
	"server_addr":                "server.addr",
	"server_rate_limit":          "server.rate_limit",
	"server_shutdown_timeout":    "server.shutdown_timeout",
	"cors_origins":               "server.cors_origins",
	"log_level":                  "logging.level",
	"log_format":                 "logging.format",
	"openweather_api_key":        "openweather.api_key",
	"openweather_geo_url":        "openweather.geo_url",
	"openweather_weather_url":    "openweather.weather_url",
	"openweather_timeout":        "openweather.timeout",
	"openweather_rps":            "openweather.rps",
	"openweather_burst":          "openweather.burst",
	"openweather_cache_ttl":      "openweather.cache_ttl",
	"catalog_provider":           "catalog.provider",
	"catalog_search_limit":       "catalog.search_limit",
	"catalog_max_queries":        "catalog.max_queries",
	"catalog_search_timeout":     "catalog.search_timeout",
	"catalog_concurrency":        "catalog.concurrency",
	"catalog_max_retries":        "catalog.max_retries",
	"catalog_retry_backoff":      "catalog.retry_backoff",
	"catalog_breaker_timeout":    "catalog.breaker.timeout",
	"audius_discovery_url":       "audius.discovery_url",
	"audius_fallback_host":       "audius.fallback_host",
	"audius_discovery_ttl":       "audius.discovery_ttl",
	"audius_app_name":            "audius.app_name",
	"audius_api_key":             "audius.api_key",
	"spotify_client_id":          "spotify.client_id",
	"spotify_client_secret":      "spotify.client_secret",
	"spotify_token_url":          "spotify.token_url",
	"spotify_base_url":           "spotify.base_url",
	"recommend_strategy":         "recommend.strategy",
	"recommend_selection_method": "recommend.strategy",
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{"server.cors_origins"}

// Load reads .env (if present), then layers defaults, the config file and
// the environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("config: failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
