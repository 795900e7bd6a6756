package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

// --- Mocks ---

// mockWeather returns a fixed observation.
type mockWeather struct {
	obs domain.WeatherObservation
	err error

	calls atomic.Int32
}

func (m *mockWeather) FetchWeather(ctx context.Context, location string) (domain.WeatherObservation, error) {
	m.calls.Add(1)
	if m.err != nil {
		return domain.WeatherObservation{}, m.err
	}
	obs := m.obs
	obs.Location = domain.Location{Name: location}
	return obs, nil
}

// mockCatalog answers every query with the same results unless a query
// has its own entry in byQuery or failing.
type mockCatalog struct {
	results []domain.PlaylistCandidate
	byQuery map[string][]domain.PlaylistCandidate
	failing map[string]error
	// block makes the named query wait for its context.
	block map[string]bool
	delay time.Duration

	mu       sync.Mutex
	queries  []string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (m *mockCatalog) Name() string { return "mock" }

func (m *mockCatalog) SearchPlaylists(ctx context.Context, query string, limit int) ([]domain.PlaylistCandidate, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	if m.block[query] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if err, ok := m.failing[query]; ok {
		return nil, err
	}
	if res, ok := m.byQuery[query]; ok {
		return res, nil
	}
	return m.results, nil
}

func (m *mockCatalog) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// mockSessions is a map-backed session store.
type mockSessions struct {
	mu       sync.Mutex
	sessions map[string]domain.RecommendationSession
	next     int
	creates  int
	updates  int
	err      error
}

func newMockSessions() *mockSessions {
	return &mockSessions{sessions: make(map[string]domain.RecommendationSession)}
}

func (m *mockSessions) Create(ctx context.Context, keywords []string, lastShownID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.next++
	m.creates++
	id := fmt.Sprintf("rec-%d", m.next)
	m.sessions[id] = domain.RecommendationSession{ID: id, Keywords: keywords, LastShownID: lastShownID}
	return id, nil
}

func (m *mockSessions) Get(ctx context.Context, id string) (domain.RecommendationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domain.RecommendationSession{}, fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}
	return sess, nil
}

func (m *mockSessions) UpdateLastShown(ctx context.Context, id string, lastShownID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}
	m.updates++
	sess.LastShownID = lastShownID
	m.sessions[id] = sess
	return nil
}

func (m *mockSessions) lastShown(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id].LastShownID
}
