package ports

import (
	"context"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
)

// CatalogSearcher searches a music catalog for playlists.
type CatalogSearcher interface {
	Name() string
	SearchPlaylists(ctx context.Context, query string, limit int) ([]domain.PlaylistCandidate, error)
}

// EndpointResolver picks the base address of a catalog service and caches
// it. Resolve always returns a usable address, falling back to a fixed one.
type EndpointResolver interface {
	Resolve(ctx context.Context) string
	Invalidate()
}
