package domain

import "strings"

// Defaults applied when a provider omits a field.
const (
	DefaultHumidity   = 50
	DefaultVisibility = 10000
	DefaultPressure   = 1013.0
)

// Location identifies where an observation was taken.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// WeatherObservation is a single current-conditions reading. It is built once
// per request by a weather provider and never mutated afterwards.
type WeatherObservation struct {
	Location             Location `json:"location"`
	Temperature          float64  `json:"temperature"`
	FeelsLike            float64  `json:"feels_like"`
	Humidity             int      `json:"humidity"`
	WindSpeed            float64  `json:"wind_speed"`
	WindGust             float64  `json:"wind_gust"`
	CloudCover           int      `json:"cloud_cover"`
	Visibility           int      `json:"visibility"`
	Pressure             float64  `json:"pressure"`
	ConditionMain        string   `json:"condition_main"`
	ConditionDescription string   `json:"condition_description"`
	ObservedAt           int64    `json:"observed_at"`
	Sunrise              int64    `json:"sunrise"`
	Sunset               int64    `json:"sunset"`
}

// NewWeatherObservation returns an observation with the documented defaults
// for every optional field. Callers overwrite what the provider supplied.
func NewWeatherObservation(condition, description string) WeatherObservation {
	return WeatherObservation{
		Humidity:             DefaultHumidity,
		Visibility:           DefaultVisibility,
		Pressure:             DefaultPressure,
		ConditionMain:        strings.ToLower(strings.TrimSpace(condition)),
		ConditionDescription: strings.ToLower(strings.TrimSpace(description)),
	}
}

// IsNight reports whether the observation falls strictly outside daylight.
// All three timestamps must be known.
func (w WeatherObservation) IsNight() bool {
	if w.ObservedAt == 0 || w.Sunrise == 0 || w.Sunset == 0 {
		return false
	}
	return w.ObservedAt < w.Sunrise || w.ObservedAt > w.Sunset
}
