package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestCandidateSet_Add(t *testing.T) {
	tests := []struct {
		name    string
		initial []PlaylistCandidate
		toAdd   PlaylistCandidate
		wantErr error
		wantLen int
	}{
		{
			name:    "adds new candidate successfully",
			initial: []PlaylistCandidate{},
			toAdd:   PlaylistCandidate{ID: "42", Title: "Rainy Day Lofi"},
			wantErr: nil,
			wantLen: 1,
		},
		{
			name: "rejects candidate with duplicate id",
			initial: []PlaylistCandidate{
				{ID: "42", Title: "Rainy Day Lofi"},
			},
			toAdd:   PlaylistCandidate{ID: "42", Title: "Different Title"},
			wantErr: ErrDuplicateCandidate,
			wantLen: 1,
		},
		{
			name:    "rejects candidate without id",
			initial: []PlaylistCandidate{},
			toAdd:   PlaylistCandidate{Title: "No ID"},
			wantErr: ErrInvalidCandidate,
			wantLen: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			set := NewCandidateSet()
			for _, c := range tc.initial {
				if err := set.Add(c); err != nil {
					t.Fatalf("seed candidate %q: %v", c.ID, err)
				}
			}

			err := set.Add(tc.toAdd)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
			} else if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}

			if got := set.Len(); got != tc.wantLen {
				t.Fatalf("expected %d candidates, got %d", tc.wantLen, got)
			}

			if tc.wantErr == nil {
				items := set.Items()
				last := items[len(items)-1]
				if !reflect.DeepEqual(last, tc.toAdd) {
					t.Fatalf("last candidate mismatch: want %+v, got %+v", tc.toAdd, last)
				}
			}
		})
	}
}

func TestCandidateSet_ItemsKeepsFirstSeen(t *testing.T) {
	set := NewCandidateSet()
	_ = set.Add(PlaylistCandidate{ID: "1", Title: "first"})
	_ = set.Add(PlaylistCandidate{ID: "2", Title: "second"})
	_ = set.Add(PlaylistCandidate{ID: "1", Title: "repeat"})

	items := set.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "first" || items[1].ID != "2" {
		t.Fatalf("unexpected order: %+v", items)
	}

	items[0].Title = "mutated"
	if set.Items()[0].Title != "first" {
		t.Fatalf("Items must return a copy")
	}
}

func TestWeatherObservation_IsNight(t *testing.T) {
	tests := []struct {
		name string
		obs  WeatherObservation
		want bool
	}{
		{name: "midday", obs: WeatherObservation{ObservedAt: 500, Sunrise: 100, Sunset: 900}, want: false},
		{name: "before sunrise", obs: WeatherObservation{ObservedAt: 50, Sunrise: 100, Sunset: 900}, want: true},
		{name: "after sunset", obs: WeatherObservation{ObservedAt: 950, Sunrise: 100, Sunset: 900}, want: true},
		{name: "exactly at sunset", obs: WeatherObservation{ObservedAt: 900, Sunrise: 100, Sunset: 900}, want: false},
		{name: "missing sunrise", obs: WeatherObservation{ObservedAt: 950, Sunset: 900}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.obs.IsNight(); got != tc.want {
				t.Fatalf("IsNight() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUpstreamError_Is(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&UpstreamError{Provider: "openweather", Err: cause})

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected UpstreamError to match ErrUpstreamUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected UpstreamError to unwrap to its cause")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("UpstreamError must not match ErrNotFound")
	}
}
