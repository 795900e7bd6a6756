// Package spotify searches the Spotify catalog for playlists using an
// app-only client-credentials token.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/moodcast/internal/adapters/transport"
	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
)

const (
	DefaultBaseURL  = "https://api.spotify.com"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	providerName = "spotify"
)

// Options configures a Client. Zero values use defaults.
type Options struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	BaseURL      string
	// HTTPClient is the transport used for both token and API calls.
	HTTPClient  *http.Client
	Timeout     time.Duration
	MaxRetries  int
	BaseBackoff time.Duration
}

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	baseURL string
	http    *transport.Client
}

// compile-time interface assertion
var _ ports.CatalogSearcher = (*Client)(nil)

// NewClient constructs a new Spotify client. Missing credentials are a
// configuration error. ctx scopes token refreshes.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.ClientID) == "" || strings.TrimSpace(opts.ClientSecret) == "" {
		return nil, fmt.Errorf("spotify adapter: client id and secret are required: %w", domain.ErrConfigurationMissing)
	}
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}

	cc := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
	}
	authed := cc.Client(context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient))
	authed.Timeout = opts.HTTPClient.Timeout

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: transport.NewClient(transport.Options{
			Provider:    providerName,
			HTTPClient:  authed,
			MaxRetries:  opts.MaxRetries,
			BaseBackoff: opts.BaseBackoff,
		}),
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string { return providerName }

// SearchPlaylists runs a playlist search and maps non-null items.
func (c *Client) SearchPlaylists(ctx context.Context, query string, limit int) ([]domain.PlaylistCandidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "playlist")
	params.Set("limit", strconv.Itoa(limit))

	var body searchResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/v1/search?"+params.Encode(), nil, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: search %q: %w", query, err)
	}

	out := make([]domain.PlaylistCandidate, 0, len(body.Playlists.Items))
	for _, item := range body.Playlists.Items {
		if item == nil {
			continue
		}
		out = append(out, mapPlaylistToDomain(*item))
	}
	return out, nil
}
