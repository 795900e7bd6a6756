package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

var validate = validator.New()

// Validate checks field constraints, then the credentials the selected
// providers need. Missing credentials wrap domain.ErrConfigurationMissing.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}

	if strings.TrimSpace(c.OpenWeather.APIKey) == "" {
		return fmt.Errorf("config: OPENWEATHER_API_KEY is missing: %w", domain.ErrConfigurationMissing)
	}
	if c.Catalog.Provider == "spotify" {
		if strings.TrimSpace(c.Spotify.ClientID) == "" || strings.TrimSpace(c.Spotify.ClientSecret) == "" {
			return fmt.Errorf("config: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required for the spotify catalog: %w", domain.ErrConfigurationMissing)
		}
	}
	return nil
}
