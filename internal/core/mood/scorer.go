// Package mood turns a weather observation into a mood profile: six affect
// scores, a bucket label and the search keywords that drive playlist lookup.
//
// Scoring is pure and deterministic. Every dimension starts at 50 and is
// pushed by the weather condition, then by continuous features (comfort,
// cloud, humidity, wind, visibility), then by night and low pressure.
package mood

import (
	"math"
	"sort"
	"strings"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

const (
	baseline = 50

	windCap       = 12.0  // m/s that counts as fully windy
	gustCap       = 20.0  // m/s
	humidityBase  = 40.0  // % considered comfortable
	humiditySpan  = 60.0  // points above base to reach 1.0
	visibilityCap = 10000 // m
	comfortPeak   = 20.0  // °C
	comfortBand   = 15.0  // °C either side of the peak

	lowPressure    = 1005.0 // hPa
	nightLowEnergy = 55
)

type features struct {
	cloud      float64
	wind       float64
	gust       float64
	humidity   float64
	visibility float64
	comfort    float64
}

type dims struct {
	energy, brightness, cozy, intensity, focus int
}

func (d *dims) add(delta dims) {
	d.energy += delta.energy
	d.brightness += delta.brightness
	d.cozy += delta.cozy
	d.intensity += delta.intensity
	d.focus += delta.focus
}

type condition int

const (
	conditionNone condition = iota
	conditionStorm
	conditionRain
	conditionSnow
	conditionClear
	conditionCloud
	conditionObscured
)

var conditionAdjustments = map[condition]dims{
	conditionStorm:    {intensity: 35, brightness: -30, energy: 5, focus: -10, cozy: 10},
	conditionRain:     {cozy: 25, brightness: -25, energy: -15, intensity: 10, focus: 15},
	conditionSnow:     {cozy: 15, energy: -20, brightness: 5, focus: 15},
	conditionClear:    {energy: 20, brightness: 30, intensity: -10, focus: 5, cozy: -5},
	conditionCloud:    {brightness: -15, cozy: 10, focus: 10, energy: -5},
	conditionObscured: {brightness: -20, focus: 20, energy: -10, cozy: 10},
}

// Score maps an observation to a mood profile. It never fails: non-finite
// numbers fall back to the documented defaults.
func Score(obs domain.WeatherObservation) domain.MoodProfile {
	obs = sanitize(obs)
	f := deriveFeatures(obs)
	night := obs.IsNight()

	raw := dims{energy: baseline, brightness: baseline, cozy: baseline, intensity: baseline, focus: baseline}
	raw.add(conditionAdjustments[classify(obs.ConditionMain)])

	raw.energy += round(15 * f.comfort)
	raw.brightness += round(12 * f.comfort)
	raw.cozy += round(10 * (1 - f.comfort))

	raw.brightness -= round(30 * f.cloud)
	raw.cozy += round(10 * f.cloud)
	raw.focus += round(8 * f.cloud)

	raw.cozy += round(15 * f.humidity)
	raw.focus += round(6 * f.humidity)
	raw.brightness -= round(10 * f.humidity)

	raw.intensity += round(25*f.wind) + round(10*f.gust)
	raw.focus -= round(10 * f.wind)

	raw.focus += round(12 * (1 - f.visibility))
	raw.brightness -= round(8 * (1 - f.visibility))

	if night {
		raw.add(dims{brightness: -15, focus: 10, cozy: 10, energy: -5})
	}
	if obs.Pressure < lowPressure {
		raw.intensity += 5
	}

	// Valence reads the unclamped dimensions; only its own result is clamped.
	rawValence := 0.55*float64(raw.brightness) + 0.25*float64(raw.energy) + 0.20*f.comfort*100 - 0.35*float64(raw.intensity)
	if night {
		rawValence -= 8
	}

	scores := map[domain.Dimension]int{
		domain.Energy:     clampScore(raw.energy),
		domain.Brightness: clampScore(raw.brightness),
		domain.Cozy:       clampScore(raw.cozy),
		domain.Intensity:  clampScore(raw.intensity),
		domain.Focus:      clampScore(raw.focus),
		domain.Valence:    clampScore(round(rawValence)),
	}

	top := TopDimensions(scores, 2)

	var bucket string
	switch {
	case isStormy(obs.ConditionMain, obs.ConditionDescription):
		bucket = domain.BucketStormIntense
	case night && scores[domain.Energy] < nightLowEnergy:
		bucket = domain.BucketNightChill
	default:
		bucket = string(top[0]) + "_" + string(top[1])
	}

	keywords := keywordsFor(bucket, top)
	keywords = tuneKeywords(keywords, obs, f, night)

	return domain.MoodProfile{
		Scores:   scores,
		Bucket:   bucket,
		Keywords: keywords,
		Mood:     MoodLabel(scores[domain.Valence]),
	}
}

// MoodLabel collapses valence into happy, sad or neutral.
func MoodLabel(valence int) string {
	switch {
	case valence >= 60:
		return domain.MoodHappy
	case valence <= 40:
		return domain.MoodSad
	default:
		return domain.MoodNeutral
	}
}

// TopDimensions returns the n highest-scoring dimensions. Ties keep the
// order of domain.Dimensions.
func TopDimensions(scores map[domain.Dimension]int, n int) []domain.Dimension {
	ordered := make([]domain.Dimension, len(domain.Dimensions))
	copy(ordered, domain.Dimensions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return scores[ordered[i]] > scores[ordered[j]]
	})
	if n > len(ordered) {
		n = len(ordered)
	}
	return ordered[:n]
}

func deriveFeatures(obs domain.WeatherObservation) features {
	return features{
		cloud:      clamp01(float64(obs.CloudCover) / 100),
		wind:       clamp01(obs.WindSpeed / windCap),
		gust:       clamp01(obs.WindGust / gustCap),
		humidity:   clamp01((float64(obs.Humidity) - humidityBase) / humiditySpan),
		visibility: clamp01(float64(obs.Visibility) / visibilityCap),
		comfort:    1 - clamp01(math.Abs(obs.FeelsLike-comfortPeak)/comfortBand),
	}
}

func classify(main string) condition {
	switch {
	case containsAny(main, "thunder", "storm"):
		return conditionStorm
	case containsAny(main, "rain", "drizzle"):
		return conditionRain
	case strings.Contains(main, "snow"):
		return conditionSnow
	case strings.Contains(main, "clear"):
		return conditionClear
	case strings.Contains(main, "cloud"):
		return conditionCloud
	case containsAny(main, "mist", "fog", "haze", "smoke"):
		return conditionObscured
	}
	return conditionNone
}

func isStormy(main, desc string) bool {
	return containsAny(main, "thunder", "storm") || strings.Contains(desc, "storm")
}

func isRainy(main, desc string) bool {
	return containsAny(main, "rain", "drizzle") || strings.Contains(desc, "rain")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func sanitize(obs domain.WeatherObservation) domain.WeatherObservation {
	obs.ConditionMain = strings.ToLower(obs.ConditionMain)
	obs.ConditionDescription = strings.ToLower(obs.ConditionDescription)
	if !finite(obs.Temperature) {
		obs.Temperature = 0
	}
	if !finite(obs.FeelsLike) {
		obs.FeelsLike = obs.Temperature
	}
	if !finite(obs.WindSpeed) {
		obs.WindSpeed = 0
	}
	if !finite(obs.WindGust) {
		obs.WindGust = 0
	}
	if !finite(obs.Pressure) {
		obs.Pressure = domain.DefaultPressure
	}
	return obs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// round matches half-to-even rounding so boundary values score the same
// as they always have.
func round(v float64) int {
	return int(math.RoundToEven(v))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
