package audius

import (
	"context"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ewilliams-labs/moodcast/internal/adapters/transport"
	"github.com/ewilliams-labs/moodcast/internal/core/ports"
	"github.com/ewilliams-labs/moodcast/internal/logging"
)

const (
	DefaultDiscoveryURL = "https://api.audius.co"
	DefaultFallbackHost = "https://discoveryprovider.audius.co"
	DefaultDiscoveryTTL = 30 * time.Minute
)

// ResolverOptions configures a Resolver. Zero values use defaults.
type ResolverOptions struct {
	DiscoveryURL string
	FallbackHost string
	TTL          time.Duration
	HTTPClient   *http.Client
	// Rand picks one host from the discovery list.
	Rand *rand.Rand
	// Now is the clock used for expiry.
	Now func() time.Time
}

// Resolver picks an Audius discovery node and caches it for a TTL.
type Resolver struct {
	discoveryURL string
	fallback     string
	ttl          time.Duration
	http         *transport.Client
	now          func() time.Time

	mu         sync.Mutex
	rng        *rand.Rand
	host       string
	resolvedAt time.Time
}

// compile-time interface assertion
var _ ports.EndpointResolver = (*Resolver)(nil)

// NewResolver constructs a Resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	if opts.DiscoveryURL == "" {
		opts.DiscoveryURL = DefaultDiscoveryURL
	}
	if opts.FallbackHost == "" {
		opts.FallbackHost = DefaultFallbackHost
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultDiscoveryTTL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	}
	if opts.Rand == nil {
		// #nosec G404 -- load spreading across public nodes
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Resolver{
		discoveryURL: opts.DiscoveryURL,
		fallback:     strings.TrimRight(opts.FallbackHost, "/"),
		ttl:          opts.TTL,
		http: transport.NewClient(transport.Options{
			Provider:   "audius-discovery",
			HTTPClient: opts.HTTPClient,
			MaxRetries: 1,
		}),
		now: opts.Now,
		rng: opts.Rand,
	}
}

// Resolve returns the cached host while it is fresh, otherwise asks the
// discovery service for a new one. Failures yield the fallback host, which
// is not cached.
func (r *Resolver) Resolve(ctx context.Context) string {
	r.mu.Lock()
	if r.host != "" && r.now().Sub(r.resolvedAt) < r.ttl {
		host := r.host
		r.mu.Unlock()
		return host
	}
	r.mu.Unlock()

	var body struct {
		Data []string `json:"data"`
	}
	if err := r.http.GetJSON(ctx, r.discoveryURL, nil, &body); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("fallback", r.fallback).Msg("audius discovery failed, using fallback host")
		return r.fallback
	}

	hosts := make([]string, 0, len(body.Data))
	for _, h := range body.Data {
		if h = strings.TrimRight(strings.TrimSpace(h), "/"); h != "" {
			hosts = append(hosts, h)
		}
	}
	if len(hosts) == 0 {
		logging.Ctx(ctx).Warn().Str("fallback", r.fallback).Msg("audius discovery returned no hosts, using fallback host")
		return r.fallback
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.host = hosts[r.rng.Intn(len(hosts))]
	r.resolvedAt = r.now()
	logging.Ctx(ctx).Debug().Str("host", r.host).Int("candidates", len(hosts)).Msg("audius discovery node selected")
	return r.host
}

// Invalidate drops the cached host so the next Resolve asks again.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.host = ""
	r.resolvedAt = time.Time{}
}
