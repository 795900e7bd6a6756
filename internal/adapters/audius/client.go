// Package audius searches the Audius catalog for playlists through a
// discovery node picked by a Resolver.
package audius

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ewilliams-labs/moodcast/internal/adapters/transport"
	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
)

const (
	providerName   = "audius"
	defaultAppName = "moodcast"
)

// Options configures a Client. Zero values use defaults.
type Options struct {
	AppName     string
	APIKey      string
	HTTPClient  *http.Client
	MaxRetries  int
	BaseBackoff time.Duration
}

// Client implements ports.CatalogSearcher for Audius.
type Client struct {
	resolver ports.EndpointResolver
	appName  string
	apiKey   string
	http     *transport.Client
}

// compile-time interface assertion
var _ ports.CatalogSearcher = (*Client)(nil)

// NewClient constructs a Client that resolves its host through resolver.
func NewClient(resolver ports.EndpointResolver, opts Options) *Client {
	if opts.AppName == "" {
		opts.AppName = defaultAppName
	}
	return &Client{
		resolver: resolver,
		appName:  opts.AppName,
		apiKey:   opts.APIKey,
		http: transport.NewClient(transport.Options{
			Provider:    providerName,
			HTTPClient:  opts.HTTPClient,
			MaxRetries:  opts.MaxRetries,
			BaseBackoff: opts.BaseBackoff,
		}),
	}
}

// Name returns the provider name.
func (c *Client) Name() string { return providerName }

// SearchPlaylists runs a playlist search. Transport failures and 5xx
// responses invalidate the resolved host.
func (c *Client) SearchPlaylists(ctx context.Context, query string, limit int) ([]domain.PlaylistCandidate, error) {
	host := c.resolver.Resolve(ctx)

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("app_name", c.appName)
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	var body searchResponse
	if err := c.http.GetJSON(ctx, host+"/v1/playlists/search?"+params.Encode(), nil, &body); err != nil {
		if hostUnhealthy(err) {
			c.resolver.Invalidate()
		}
		return nil, fmt.Errorf("audius: search %q: %w", query, err)
	}

	out := make([]domain.PlaylistCandidate, 0, len(body.Data))
	for _, p := range body.Data {
		out = append(out, mapPlaylistToDomain(p))
	}
	return out, nil
}

func hostUnhealthy(err error) bool {
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		return false
	}
	return upstream.StatusCode == 0 || upstream.StatusCode >= http.StatusInternalServerError
}
