// Package resilience wraps providers with a circuit breaker, a rate limiter
// and a short-lived weather cache.
package resilience

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
	"github.com/ewilliams-labs/moodcast/internal/logging"
	"github.com/ewilliams-labs/moodcast/internal/metrics"
)

// BreakerOptions configures the catalog circuit breaker. Zero values use
// defaults.
type BreakerOptions struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval after which closed-state counts reset.
	Interval time.Duration
	// Timeout spent open before probing again.
	Timeout time.Duration
	// MinRequests before the failure ratio is considered.
	MinRequests  uint32
	FailureRatio float64
}

// BreakerSearcher guards a catalog searcher with a circuit breaker. While
// open, searches fail fast with an upstream error.
type BreakerSearcher struct {
	next ports.CatalogSearcher
	cb   *gobreaker.CircuitBreaker[[]domain.PlaylistCandidate]
}

// compile-time interface assertion
var _ ports.CatalogSearcher = (*BreakerSearcher)(nil)

// NewBreakerSearcher wraps next.
func NewBreakerSearcher(next ports.CatalogSearcher, opts BreakerOptions) *BreakerSearcher {
	if opts.MaxRequests == 0 {
		opts.MaxRequests = 3
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MinRequests == 0 {
		opts.MinRequests = 10
	}
	if opts.FailureRatio <= 0 || opts.FailureRatio > 1 {
		opts.FailureRatio = 0.6
	}

	name := next.Name()
	metrics.CatalogBreakerState.WithLabelValues(name).Set(stateToFloat(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[[]domain.PlaylistCandidate](gobreaker.Settings{
		Name:        name,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= opts.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("provider", name).Str("from", from.String()).Str("to", to.String()).Msg("catalog circuit breaker state change")
			metrics.CatalogBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		// A caller giving up says nothing about the provider.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerSearcher{next: next, cb: cb}
}

// Name returns the wrapped provider name.
func (b *BreakerSearcher) Name() string { return b.next.Name() }

// SearchPlaylists runs the search through the breaker.
func (b *BreakerSearcher) SearchPlaylists(ctx context.Context, query string, limit int) ([]domain.PlaylistCandidate, error) {
	result, err := b.cb.Execute(func() ([]domain.PlaylistCandidate, error) {
		return b.next.SearchPlaylists(ctx, query, limit)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &domain.UpstreamError{Provider: b.next.Name(), Err: err}
	}
	return result, err
}

// State reports the breaker state.
func (b *BreakerSearcher) State() gobreaker.State { return b.cb.State() }

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
