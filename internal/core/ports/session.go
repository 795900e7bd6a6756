package ports

import (
	"context"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

// SessionStore keeps the context needed to regenerate a recommendation.
// Get and UpdateLastShown return domain.ErrNotFound for unknown ids.
type SessionStore interface {
	Create(ctx context.Context, keywords []string, lastShownID string) (string, error)
	Get(ctx context.Context, id string) (domain.RecommendationSession, error)
	UpdateLastShown(ctx context.Context, id string, lastShownID string) error
}
