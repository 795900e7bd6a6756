// Package transport is the shared HTTP layer for outbound provider calls:
// bounded retries with exponential backoff, Retry-After handling and JSON
// decoding into typed wire structs.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/moodcast/internal/core/domain"
	"github.com/ewilliams-labs/moodcast/internal/logging"
)

const (
	defaultMaxRetries  = 3
	defaultBaseBackoff = 500 * time.Millisecond
	defaultTimeout     = 10 * time.Second

	// errorBodyLimit caps how much of a failed response is kept for logs.
	errorBodyLimit = 512
)

const userAgent = "moodcast/1.0"

// Options configures a Client. Zero values use defaults.
type Options struct {
	// Provider names the upstream in errors, logs and metrics.
	Provider    string
	HTTPClient  *http.Client
	MaxRetries  int
	BaseBackoff time.Duration
}

// Client wraps an *http.Client with retry semantics.
type Client struct {
	provider    string
	httpClient  *http.Client
	maxRetries  int
	baseBackoff time.Duration
}

// NewClient constructs a Client.
func NewClient(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = defaultBaseBackoff
	}
	return &Client{
		provider:    opts.Provider,
		httpClient:  opts.HTTPClient,
		maxRetries:  opts.MaxRetries,
		baseBackoff: opts.BaseBackoff,
	}
}

// Provider returns the upstream name this client reports.
func (c *Client) Provider() string { return c.provider }

// Do sends req, retrying transport errors, 429 and 5xx responses. Any other
// response is returned as is. Exhausted retries yield a
// *domain.UpstreamError; a canceled context yields the context error.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.GetBody == nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: read request body: %w", c.provider, err)
		}
		_ = req.Body.Close()
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(bodyBytes)), nil
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	ctx := req.Context()
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: request canceled: %w", c.provider, err)
		}

		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("%s: reset request body: %w", c.provider, err)
			}
			req.Body = body
		}

		// #nosec G107 -- URL built from configured provider base URLs
		resp, err := c.httpClient.Do(req)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry {
			return resp, err
		}
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%s: request canceled: %w", c.provider, ctx.Err())
		}

		attemptNum := attempt + 1
		event := logging.Ctx(ctx).Warn().
			Str("provider", c.provider).
			Int("attempt", attemptNum).
			Int("max_attempts", c.maxRetries)
		if err != nil {
			event.Err(err).Msg("upstream request failed, retrying")
		} else {
			event.Int("status", resp.StatusCode).Msg("upstream returned retryable status")
		}

		if attempt == c.maxRetries-1 {
			if err != nil {
				return nil, &domain.UpstreamError{
					Provider: c.provider,
					Err:      fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, err),
				}
			}
			_ = resp.Body.Close()
			return nil, &domain.UpstreamError{
				Provider:   c.provider,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("request failed after %d attempts", c.maxRetries),
			}
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		backoff := c.baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = retryAfter
		}

		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, fmt.Errorf("%s: request canceled: %w", c.provider, err)
		}
	}

	return nil, &domain.UpstreamError{
		Provider: c.provider,
		Err:      fmt.Errorf("request failed after %d attempts", c.maxRetries),
	}
}

// GetJSON performs a GET and decodes a 200 response into out. Non-200
// responses become a *domain.UpstreamError carrying the status code.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", c.provider, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.Do(req)
	if err != nil {
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		return &domain.UpstreamError{Provider: c.provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		logging.Ctx(ctx).Debug().
			Str("provider", c.provider).
			Int("status", resp.StatusCode).
			Str("body", string(snippet)).
			Msg("upstream returned non-200")
		return &domain.UpstreamError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.UpstreamError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}

	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(retryAfter); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}

	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
