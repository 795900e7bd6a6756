// Package memory holds process-local implementations of the core ports.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
	"github.com/ewilliams-labs/moodcast/internal/metrics"
)

// SessionStore keeps recommendation sessions for the life of the process.
// Entries are never evicted.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.RecommendationSession
	now      func() time.Time
}

// compile-time interface assertion
var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.RecommendationSession),
		now:      time.Now,
	}
}

// Create stores a new session under a random 128-bit id.
func (s *SessionStore) Create(ctx context.Context, keywords []string, lastShownID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("memory store: create canceled: %w", err)
	}

	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = domain.RecommendationSession{
		ID:          id,
		Keywords:    slices.Clone(keywords),
		LastShownID: lastShownID,
		CreatedAt:   s.now(),
	}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.Sessions.Set(float64(n))
	return id, nil
}

// Get returns a copy of the session.
func (s *SessionStore) Get(ctx context.Context, id string) (domain.RecommendationSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return domain.RecommendationSession{}, fmt.Errorf("memory store: session %q: %w", id, domain.ErrNotFound)
	}
	sess.Keywords = slices.Clone(sess.Keywords)
	return sess, nil
}

// UpdateLastShown replaces the last shown playlist id. Concurrent updates
// to one session are last-write-wins.
func (s *SessionStore) UpdateLastShown(ctx context.Context, id string, lastShownID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("memory store: session %q: %w", id, domain.ErrNotFound)
	}
	sess.LastShownID = lastShownID
	s.sessions[id] = sess
	return nil
}

// Len reports how many sessions are held.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
