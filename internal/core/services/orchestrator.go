package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/mood"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
	"github.com/ewilliams-labs/moodcast/internal/core/ranking"
	"github.com/ewilliams-labs/moodcast/internal/logging"
	"github.com/ewilliams-labs/moodcast/internal/metrics"
)

// ErrEmptyLocation is returned when Recommend is called without a location.
var ErrEmptyLocation = errors.New("service: location cannot be empty")

// Strategy selects how the winning playlist is chosen.
type Strategy string

const (
	// StrategyRanked scores candidates against the keywords and falls back
	// to a random pick when ranking yields nothing.
	StrategyRanked Strategy = "ranked"
	// StrategyRandom skips ranking entirely.
	StrategyRandom Strategy = "random"
)

const defaultMaxQueries = 6

const (
	kindRecommend  = "recommend"
	kindRegenerate = "regenerate"
)

// Options configures an Orchestrator. Zero values use defaults.
type Options struct {
	MaxQueries int
	Strategy   Strategy
	// Rand drives random selection. Inject a seeded source in tests.
	Rand *rand.Rand
}

// Orchestrator coordinates weather lookup, mood scoring, catalog search,
// playlist selection and the session store.
type Orchestrator struct {
	weather    ports.WeatherProvider
	aggregator *Aggregator
	sessions   ports.SessionStore

	maxQueries int
	strategy   Strategy

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(weather ports.WeatherProvider, aggregator *Aggregator, sessions ports.SessionStore, opts Options) *Orchestrator {
	if opts.MaxQueries < 1 {
		opts.MaxQueries = defaultMaxQueries
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyRanked
	}
	if opts.Rand == nil {
		// #nosec G404 -- playlist shuffling, not security-sensitive
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Orchestrator{
		weather:    weather,
		aggregator: aggregator,
		sessions:   sessions,
		maxQueries: opts.MaxQueries,
		strategy:   opts.Strategy,
		rng:        opts.Rand,
	}
}

// Weather fetches the observation for a location and scores it.
func (o *Orchestrator) Weather(ctx context.Context, location string) (domain.WeatherObservation, domain.MoodProfile, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return domain.WeatherObservation{}, domain.MoodProfile{}, ErrEmptyLocation
	}

	obs, err := o.weather.FetchWeather(ctx, location)
	if err != nil {
		return domain.WeatherObservation{}, domain.MoodProfile{}, fmt.Errorf("service: failed to fetch weather: %w", err)
	}

	return obs, mood.Score(obs), nil
}

// Recommend picks a playlist for the weather at location and opens a
// session so the caller can ask for a different one later.
func (o *Orchestrator) Recommend(ctx context.Context, location string) (rec domain.Recommendation, err error) {
	defer func() { recordOutcome(kindRecommend, err) }()

	// 1. Weather and mood
	obs, profile, err := o.Weather(ctx, location)
	if err != nil {
		return domain.Recommendation{}, err
	}

	// 2. Catalog search and selection
	queries := ranking.BuildQueries(profile.Keywords, o.maxQueries)
	candidates := o.aggregator.Aggregate(ctx, queries)
	pick, ok := o.choose(candidates, profile.Keywords, nil)

	// Nothing is committed for an abandoned request.
	if err := ctx.Err(); err != nil {
		return domain.Recommendation{}, fmt.Errorf("service: recommendation canceled: %w", err)
	}
	if !ok {
		return domain.Recommendation{}, fmt.Errorf("service: no playlist for %q: %w", queries[0], domain.ErrNotFound)
	}

	// 3. Remember what was shown
	id, err := o.sessions.Create(ctx, profile.Keywords, pick.ID)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("service: failed to create session: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("recommendation_id", id).
		Str("bucket", profile.Bucket).
		Str("playlist_id", pick.ID).
		Int("candidates", len(candidates)).
		Msg("recommendation served")

	return domain.Recommendation{
		ID:        id,
		Weather:   obs,
		Profile:   profile,
		Queries:   queries,
		MoodQuery: queries[0],
		Playlist:  pick,
	}, nil
}

// Regenerate returns a different playlist for an existing recommendation
// without looking at the weather again. Concurrent calls for the same id
// race on the last shown playlist; the last write wins.
func (o *Orchestrator) Regenerate(ctx context.Context, id string) (rec domain.Recommendation, err error) {
	defer func() { recordOutcome(kindRegenerate, err) }()

	sess, err := o.sessions.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("service: failed to load recommendation: %w", err)
	}

	queries := ranking.BuildQueries(sess.Keywords, o.maxQueries)
	candidates := o.aggregator.Aggregate(ctx, queries)
	pick, ok := o.choose(candidates, sess.Keywords, ranking.Exclude(sess.LastShownID))

	if err := ctx.Err(); err != nil {
		return domain.Recommendation{}, fmt.Errorf("service: regenerate canceled: %w", err)
	}
	if !ok {
		return domain.Recommendation{}, fmt.Errorf("service: no other playlist for %q: %w", queries[0], domain.ErrNotFound)
	}

	if err := o.sessions.UpdateLastShown(ctx, sess.ID, pick.ID); err != nil {
		return domain.Recommendation{}, fmt.Errorf("service: failed to update recommendation: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("recommendation_id", sess.ID).
		Str("previous_id", sess.LastShownID).
		Str("playlist_id", pick.ID).
		Msg("recommendation regenerated")

	return domain.Recommendation{
		ID:        sess.ID,
		Profile:   domain.MoodProfile{Keywords: sess.Keywords},
		Queries:   queries,
		MoodQuery: queries[0],
		Playlist:  pick,
	}, nil
}

func (o *Orchestrator) choose(candidates []domain.PlaylistCandidate, keywords []string, exclude ranking.Exclusions) (domain.PlaylistCandidate, bool) {
	if o.strategy != StrategyRandom {
		if pick, ok := ranking.Rank(candidates, keywords, exclude); ok {
			return pick, true
		}
	}

	o.rngMu.Lock()
	defer o.rngMu.Unlock()
	return ranking.PickRandom(candidates, exclude, o.rng)
}

func recordOutcome(kind string, err error) {
	switch {
	case err == nil:
		metrics.RecordRecommendation(kind, metrics.OutcomeOK)
	case errors.Is(err, domain.ErrNotFound):
		metrics.RecordRecommendation(kind, "not_found")
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		metrics.RecordRecommendation(kind, "upstream_unavailable")
	default:
		metrics.RecordRecommendation(kind, metrics.OutcomeError)
	}
}
