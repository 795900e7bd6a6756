package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
	"github.com/ewilliams-labs/moodcast/internal/logging"
	"github.com/ewilliams-labs/moodcast/internal/metrics"
)

const (
	defaultSearchLimit   = 10
	defaultSearchTimeout = 10 * time.Second
	defaultConcurrency   = 4
)

// AggregatorOptions tunes the catalog fan-out. Zero values use defaults.
type AggregatorOptions struct {
	SearchLimit   int
	SearchTimeout time.Duration
	Concurrency   int
}

// Aggregator runs one catalog search per query and merges the results,
// dropping repeats by playlist id.
type Aggregator struct {
	catalog     ports.CatalogSearcher
	limit       int
	timeout     time.Duration
	concurrency int
}

// NewAggregator constructs an Aggregator.
func NewAggregator(catalog ports.CatalogSearcher, opts AggregatorOptions) *Aggregator {
	if opts.SearchLimit < 1 {
		opts.SearchLimit = defaultSearchLimit
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = defaultSearchTimeout
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = defaultConcurrency
	}
	return &Aggregator{
		catalog:     catalog,
		limit:       opts.SearchLimit,
		timeout:     opts.SearchTimeout,
		concurrency: opts.Concurrency,
	}
}

// Aggregate searches every query and returns the merged candidates in
// (query index, result index) order. A failing query contributes nothing;
// it never aborts the others.
func (a *Aggregator) Aggregate(ctx context.Context, queries []string) []domain.PlaylistCandidate {
	results := make([][]domain.PlaylistCandidate, len(queries))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			results[i] = a.search(ctx, query)
			return nil
		})
	}
	_ = g.Wait()

	set := domain.NewCandidateSet()
	for _, batch := range results {
		for _, c := range batch {
			// empty and repeated ids are rejected by the set
			_ = set.Add(c)
		}
	}
	return set.Items()
}

func (a *Aggregator) search(ctx context.Context, query string) []domain.PlaylistCandidate {
	provider := a.catalog.Name()

	searchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	found, err := a.catalog.SearchPlaylists(searchCtx, query, a.limit)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordCatalogSearch(provider, metrics.OutcomeError, elapsed)
		event := logging.Ctx(ctx).Warn()
		if errors.Is(err, context.DeadlineExceeded) {
			event = event.Dur("timeout", a.timeout)
		}
		event.Err(err).Str("provider", provider).Str("query", query).Msg("catalog search failed, skipping query")
		return nil
	}

	outcome := metrics.OutcomeOK
	if len(found) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordCatalogSearch(provider, outcome, elapsed)
	logging.Ctx(ctx).Debug().Str("provider", provider).Str("query", query).Int("results", len(found)).Msg("catalog search")

	return found
}
