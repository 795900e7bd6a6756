package rest

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/moodcast/internal/adapters/memory"
	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/services"
)

// --- Mocks ---

// The handler depends on a concrete *services.Orchestrator, so tests build a
// real one over mock adapters.

type mockWeather struct {
	err error
}

func (m *mockWeather) FetchWeather(ctx context.Context, location string) (domain.WeatherObservation, error) {
	if m.err != nil {
		return domain.WeatherObservation{}, m.err
	}
	obs := domain.NewWeatherObservation("Rain", "light rain")
	obs.Location = domain.Location{Name: location, Lat: 59.33, Lon: 18.07}
	obs.Temperature, obs.FeelsLike = 12, 11
	obs.Humidity = 85
	obs.CloudCover = 75
	obs.WindSpeed = 3
	return obs, nil
}

type mockCatalog struct {
	results []domain.PlaylistCandidate
	err     error
}

func (m *mockCatalog) Name() string { return "mock" }

func (m *mockCatalog) SearchPlaylists(ctx context.Context, query string, limit int) ([]domain.PlaylistCandidate, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

var twoPlaylists = []domain.PlaylistCandidate{
	{ID: "7", Title: "Lofi Study Rainy Day", ExternalURL: "https://audius.co/playlists/7", Provider: "mock"},
	{ID: "8", Title: "Jazz for Grey Skies", Provider: "mock"},
}

func newTestHandler(weather *mockWeather, catalog *mockCatalog, opts Options) *Handler {
	agg := services.NewAggregator(catalog, services.AggregatorOptions{})
	svc := services.NewOrchestrator(weather, agg, memory.NewSessionStore(), services.Options{
		Rand: rand.New(rand.NewSource(1)),
	})
	return NewHandler(svc, opts)
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHandler_Recommend(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		weatherErr     error
		catalog        *mockCatalog
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success: returns playlist and recommendation id",
			target:         "/recommend?location=Stockholm",
			catalog:        &mockCatalog{results: twoPlaylists},
			expectedStatus: http.StatusOK,
			expectedBody:   `"recommendation_id":"`,
		},
		{
			name:           "Bad Request: missing location",
			target:         "/recommend",
			catalog:        &mockCatalog{},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "location is required",
		},
		{
			name:           "Not Found: unknown location",
			target:         "/recommend?location=Atlantis",
			weatherErr:     domain.ErrNotFound,
			catalog:        &mockCatalog{},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Bad Gateway: weather provider down",
			target:         "/recommend?location=Stockholm",
			weatherErr:     &domain.UpstreamError{Provider: "openweather", StatusCode: 503},
			catalog:        &mockCatalog{},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "upstream provider unavailable",
		},
		{
			name:           "Not Found: every catalog search fails",
			target:         "/recommend?location=Stockholm",
			catalog:        &mockCatalog{err: errors.New("catalog down")},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Server Error: missing configuration",
			target:         "/recommend?location=Stockholm",
			weatherErr:     domain.ErrConfigurationMissing,
			catalog:        &mockCatalog{},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockWeather{err: tt.weatherErr}, tt.catalog, Options{})

			rec := do(t, h, tt.target)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, strings.TrimSpace(rec.Body.String()))
			}
			if tt.expectedBody != "" && !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type: got %q", ct)
			}
		})
	}
}

func TestHandler_RecommendShape(t *testing.T) {
	h := newTestHandler(&mockWeather{}, &mockCatalog{results: twoPlaylists}, Options{})

	rec := do(t, h, "/recommend?location=Stockholm")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body recommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Playlist.ID != "7" {
		t.Errorf("expected best keyword match 7, got %q", body.Playlist.ID)
	}
	if body.Playlist.URL != "https://audius.co/playlists/7" {
		t.Errorf("playlist url: got %q", body.Playlist.URL)
	}
	if body.MoodQuery == "" || len(body.Keywords) == 0 || body.Bucket == "" || body.Mood == "" {
		t.Errorf("profile fields missing: %+v", body)
	}
	if len(body.Scores) != 6 {
		t.Errorf("expected six scores, got %v", body.Scores)
	}
	if body.Weather.Location.Name != "Stockholm" {
		t.Errorf("weather location: got %q", body.Weather.Location.Name)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Errorf("expected %s header", requestIDHeader)
	}
}

func TestHandler_Regenerate(t *testing.T) {
	h := newTestHandler(&mockWeather{}, &mockCatalog{results: twoPlaylists}, Options{})

	first := do(t, h, "/recommend?location=Stockholm")
	var rec1 recommendResponse
	if err := json.Unmarshal(first.Body.Bytes(), &rec1); err != nil {
		t.Fatalf("decode recommend: %v", err)
	}

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success: returns the other playlist",
			target:         "/recommend/regenerate?recommendation_id=" + rec1.RecommendationID,
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"8"`,
		},
		{
			name:           "Not Found: unknown id",
			target:         "/recommend/regenerate?recommendation_id=nope",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"recommendation expired or invalid"}`,
		},
		{
			name:           "Bad Request: missing id",
			target:         "/recommend/regenerate",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "recommendation_id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.target)
			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d, body: %s", tt.expectedStatus, rec.Code, strings.TrimSpace(rec.Body.String()))
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_Weather(t *testing.T) {
	h := newTestHandler(&mockWeather{}, &mockCatalog{}, Options{})

	rec := do(t, h, "/api/weather/Stockholm")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body weatherResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.City != "Stockholm" || body.Lat != 59.33 || body.Description != "light rain" {
		t.Errorf("unexpected body %+v", body)
	}
	if body.Bucket == "" || len(body.Keywords) == 0 {
		t.Errorf("profile missing: %+v", body)
	}
}

func TestHandler_HealthAndReady(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		ready          ReadyFunc
		expectedStatus int
		expectedBody   string
	}{
		{name: "health", target: "/health", expectedStatus: http.StatusOK, expectedBody: `"status":"ok"`},
		{name: "ready without check", target: "/ready", expectedStatus: http.StatusOK, expectedBody: `"status":"ready"`},
		{
			name:           "not ready",
			target:         "/ready",
			ready:          func(ctx context.Context) error { return errors.New("catalog breaker open") },
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "catalog breaker open",
		},
		{name: "metrics", target: "/metrics", expectedStatus: http.StatusOK, expectedBody: "go_goroutines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockWeather{}, &mockCatalog{}, Options{Ready: tt.ready})
			rec := do(t, h, tt.target)
			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_RateLimit(t *testing.T) {
	h := newTestHandler(&mockWeather{}, &mockCatalog{results: twoPlaylists}, Options{RateLimit: 1})

	if rec := do(t, h, "/recommend?location=Stockholm"); rec.Code != http.StatusOK {
		t.Fatalf("first request: status %d", rec.Code)
	}
	if rec := do(t, h, "/recommend?location=Stockholm"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
	if rec := do(t, h, "/health"); rec.Code != http.StatusOK {
		t.Fatalf("health must not be rate limited, got %d", rec.Code)
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: services.ErrEmptyLocation, want: http.StatusBadRequest},
		{err: domain.ErrNotFound, want: http.StatusNotFound},
		{err: &domain.UpstreamError{Provider: "x"}, want: http.StatusBadGateway},
		{err: domain.ErrConfigurationMissing, want: http.StatusInternalServerError},
		{err: context.DeadlineExceeded, want: http.StatusGatewayTimeout},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFromError(tt.err); got != tt.want {
			t.Errorf("statusFromError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
