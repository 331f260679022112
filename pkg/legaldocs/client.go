// Package legaldocs fetches public legal and permit notices from
// commercial notice aggregators over their REST APIs.
package legaldocs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/groundsignal/leadradar/internal/resilience"
)

// Notice is a single published legal notice.
type Notice struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Category      string     `json:"category"`
	Jurisdiction  string     `json:"jurisdiction"`
	PublishedDate *time.Time `json:"published_date"`
	URL           string     `json:"url"`
}

// Query narrows a notice search.
type Query struct {
	Keywords     string
	Jurisdiction string
	Since        time.Time
	Limit        int
}

// Client defines the notice operations the extractors use.
type Client interface {
	FetchNotices(ctx context.Context, q Query) ([]Notice, error)
}

// Provider is one upstream notice API.
type Provider struct {
	Name    string
	BaseURL string
	APIKey  string
}

// Option configures the client.
type Option func(*apiClient)

// WithRateLimit caps outbound requests per second across providers.
func WithRateLimit(rps float64) Option {
	return func(c *apiClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *apiClient) { c.http = hc }
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p resilience.Policy) Option {
	return func(c *apiClient) { c.retry = p }
}

type apiClient struct {
	providers []Provider
	http      *http.Client
	limiter   *rate.Limiter
	retry     resilience.Policy
}

// NewClient creates a Client that queries providers in order, falling
// over to the next provider when one fails.
func NewClient(providers []Provider, opts ...Option) (Client, error) {
	if len(providers) == 0 {
		return nil, eris.New("legaldocs: at least one provider required")
	}
	c := &apiClient{
		providers: providers,
		http:      &http.Client{Timeout: 20 * time.Second},
		retry:     resilience.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *apiClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// FetchNotices queries each provider until one succeeds. The combined
// error chain is returned when every provider fails.
func (c *apiClient) FetchNotices(ctx context.Context, q Query) ([]Notice, error) {
	var lastErr error
	for _, p := range c.providers {
		notices, err := c.fetchFromProvider(ctx, p, q)
		if err == nil {
			return notices, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
		zap.L().Warn("legaldocs: provider failed, trying next",
			zap.String("provider", p.Name),
			zap.Error(err),
		)
	}
	return nil, eris.Wrap(lastErr, "legaldocs: all providers failed")
}

func (c *apiClient) fetchFromProvider(ctx context.Context, p Provider, q Query) ([]Notice, error) {
	return resilience.Do(ctx, c.retry, "legaldocs."+p.Name, func(ctx context.Context) ([]Notice, error) {
		if err := c.wait(ctx); err != nil {
			return nil, eris.Wrap(err, "legaldocs: rate limit")
		}
		return c.doRequest(ctx, p, q)
	})
}

type noticesResponse struct {
	Notices []Notice `json:"notices"`
}

func (c *apiClient) doRequest(ctx context.Context, p Provider, q Query) ([]Notice, error) {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, eris.Wrapf(err, "legaldocs: parse base url for %s", p.Name)
	}
	u = u.JoinPath("notices")

	params := url.Values{}
	if q.Keywords != "" {
		params.Set("q", q.Keywords)
	}
	if q.Jurisdiction != "" {
		params.Set("jurisdiction", q.Jurisdiction)
	}
	if !q.Since.IsZero() {
		params.Set("since", q.Since.UTC().Format(time.RFC3339))
	}
	if q.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", q.Limit))
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "legaldocs: build request")
	}
	req.Header.Set("Accept", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "legaldocs: %s request", p.Name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := eris.Errorf("legaldocs: %s returned %d: %s", p.Name, resp.StatusCode, string(body))
		if resilience.RetryableStatus(resp.StatusCode) {
			return nil, resilience.Transient(err, resp.StatusCode)
		}
		return nil, err
	}

	var decoded noticesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, eris.Wrapf(err, "legaldocs: decode %s response", p.Name)
	}
	return decoded.Notices, nil
}
