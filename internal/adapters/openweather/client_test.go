package openweather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

const londonWeather = `{
	"weather": [{"main": "Rain", "description": "Light Rain"}],
	"main": {"temp": 14.2, "feels_like": 13.1, "humidity": 88, "pressure": 1004},
	"wind": {"speed": 4.1, "gust": 9.3},
	"clouds": {"all": 90},
	"visibility": 6000,
	"dt": 1700000000,
	"sys": {"sunrise": 1699990000, "sunset": 1700020000},
	"name": "London"
}`

func newTestServer(t *testing.T, geo string, geoStatus int, weather string, weatherStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "test-key" {
			t.Errorf("geocode: missing appid")
		}
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("geocode: limit = %q, want 1", r.URL.Query().Get("limit"))
		}
		w.WriteHeader(geoStatus)
		_, _ = w.Write([]byte(geo))
	})
	mux.HandleFunc("/data/2.5/weather", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("units") != "metric" || q.Get("lat") != "51.5073" || q.Get("lon") != "-0.1276" {
			t.Errorf("weather: unexpected query %v", q)
		}
		w.WriteHeader(weatherStatus)
		_, _ = w.Write([]byte(weather))
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, ts *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient("test-key", Options{
		GeoURL:      ts.URL + "/geo/1.0/direct",
		WeatherURL:  ts.URL + "/data/2.5/weather",
		HTTPClient:  ts.Client(),
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClient_FetchWeather(t *testing.T) {
	const londonGeo = `[{"name": "London", "lat": 51.5073, "lon": -0.1276, "country": "GB"}]`

	tests := []struct {
		name          string
		geo           string
		geoStatus     int
		weather       string
		weatherStatus int
		wantErr       error
		check         func(t *testing.T, obs domain.WeatherObservation)
	}{
		{
			name: "Happy Path", geo: londonGeo, geoStatus: http.StatusOK,
			weather: londonWeather, weatherStatus: http.StatusOK,
			check: func(t *testing.T, obs domain.WeatherObservation) {
				if obs.Location.Name != "London" || obs.Location.Lat != 51.5073 {
					t.Errorf("location: %+v", obs.Location)
				}
				if obs.ConditionMain != "rain" || obs.ConditionDescription != "light rain" {
					t.Errorf("condition not lowercased: %q / %q", obs.ConditionMain, obs.ConditionDescription)
				}
				if obs.FeelsLike != 13.1 || obs.Humidity != 88 || obs.Pressure != 1004 {
					t.Errorf("main block: %+v", obs)
				}
				if obs.WindGust != 9.3 || obs.CloudCover != 90 || obs.Visibility != 6000 {
					t.Errorf("wind/clouds/visibility: %+v", obs)
				}
				if obs.ObservedAt != 1700000000 || obs.Sunrise != 1699990000 || obs.Sunset != 1700020000 {
					t.Errorf("timestamps: %+v", obs)
				}
			},
		},
		{
			name: "missing optional fields use defaults", geo: londonGeo, geoStatus: http.StatusOK,
			weather: `{"weather":[{"main":"Clear","description":"clear sky"}],"main":{"temp":21.5}}`, weatherStatus: http.StatusOK,
			check: func(t *testing.T, obs domain.WeatherObservation) {
				if obs.FeelsLike != 21.5 {
					t.Errorf("feels_like should default to temp, got %v", obs.FeelsLike)
				}
				if obs.Humidity != domain.DefaultHumidity || obs.Visibility != domain.DefaultVisibility || obs.Pressure != domain.DefaultPressure {
					t.Errorf("defaults not applied: %+v", obs)
				}
				if obs.WindGust != 0 || obs.CloudCover != 0 {
					t.Errorf("gust and clouds default to zero: %+v", obs)
				}
			},
		},
		{
			name: "unknown city", geo: `[]`, geoStatus: http.StatusOK,
			wantErr: domain.ErrNotFound,
		},
		{
			name: "geocode 404", geo: `{}`, geoStatus: http.StatusNotFound,
			wantErr: domain.ErrNotFound,
		},
		{
			name: "geocode unauthorized", geo: `{"cod":401}`, geoStatus: http.StatusUnauthorized,
			wantErr: domain.ErrUpstreamUnavailable,
		},
		{
			name: "weather outage", geo: londonGeo, geoStatus: http.StatusOK,
			weather: `oops`, weatherStatus: http.StatusBadGateway,
			wantErr: domain.ErrUpstreamUnavailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, tc.geo, tc.geoStatus, tc.weather, tc.weatherStatus)
			defer ts.Close()

			obs, err := newTestClient(t, ts).FetchWeather(context.Background(), "London")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, obs)
		})
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient("  ", Options{}); !errors.Is(err, domain.ErrConfigurationMissing) {
		t.Fatalf("expected ErrConfigurationMissing, got %v", err)
	}
}
