package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

func ids(cands []domain.PlaylistCandidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.ID)
	}
	return out
}

func TestAggregator_Aggregate(t *testing.T) {
	tests := []struct {
		name    string
		catalog *mockCatalog
		queries []string
		wantIDs []string
	}{
		{
			name: "repeated id across queries appears once",
			catalog: &mockCatalog{
				results: []domain.PlaylistCandidate{{ID: "42", Title: "Rainy Lofi"}},
			},
			queries: []string{"lofi rain", "lofi", "rain"},
			wantIDs: []string{"42"},
		},
		{
			name: "keeps query order then result order",
			catalog: &mockCatalog{
				byQuery: map[string][]domain.PlaylistCandidate{
					"a": {{ID: "1"}, {ID: "2"}},
					"b": {{ID: "2"}, {ID: "3"}},
					"c": {{ID: "4"}},
				},
			},
			queries: []string{"a", "b", "c"},
			wantIDs: []string{"1", "2", "3", "4"},
		},
		{
			name: "failing query is skipped",
			catalog: &mockCatalog{
				byQuery: map[string][]domain.PlaylistCandidate{
					"a": {{ID: "1"}},
					"c": {{ID: "3"}},
				},
				failing: map[string]error{"b": errors.New("boom")},
			},
			queries: []string{"a", "b", "c"},
			wantIDs: []string{"1", "3"},
		},
		{
			name: "candidates without id are dropped",
			catalog: &mockCatalog{
				results: []domain.PlaylistCandidate{{Title: "anonymous"}, {ID: "9"}},
			},
			queries: []string{"x"},
			wantIDs: []string{"9"},
		},
		{
			name:    "every query failing yields nothing",
			catalog: &mockCatalog{failing: map[string]error{"a": errors.New("down"), "b": errors.New("down")}},
			queries: []string{"a", "b"},
			wantIDs: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agg := NewAggregator(tc.catalog, AggregatorOptions{})
			got := ids(agg.Aggregate(context.Background(), tc.queries))
			if !reflect.DeepEqual(got, tc.wantIDs) {
				t.Fatalf("ids: got %v, want %v", got, tc.wantIDs)
			}
			if len(tc.catalog.seen()) != len(tc.queries) {
				t.Fatalf("expected %d searches, got %v", len(tc.queries), tc.catalog.seen())
			}
		})
	}
}

func TestAggregator_SlowQueryTimesOut(t *testing.T) {
	catalog := &mockCatalog{
		byQuery: map[string][]domain.PlaylistCandidate{"fast": {{ID: "1"}}},
		block:   map[string]bool{"slow": true},
	}
	agg := NewAggregator(catalog, AggregatorOptions{SearchTimeout: 20 * time.Millisecond})

	start := time.Now()
	got := ids(agg.Aggregate(context.Background(), []string{"slow", "fast"}))
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("aggregate took %s, expected the slow query to time out", elapsed)
	}
	if !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("ids: got %v, want [1]", got)
	}
}

func TestAggregator_RespectsConcurrencyLimit(t *testing.T) {
	catalog := &mockCatalog{
		results: []domain.PlaylistCandidate{{ID: "1"}},
		delay:   10 * time.Millisecond,
	}
	agg := NewAggregator(catalog, AggregatorOptions{Concurrency: 2})

	agg.Aggregate(context.Background(), []string{"a", "b", "c", "d", "e", "f"})

	if peak := catalog.peak.Load(); peak > 2 {
		t.Fatalf("peak concurrency %d exceeds limit 2", peak)
	}
}
