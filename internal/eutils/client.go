// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eutils is a small client for the NCBI E-utilities API: esearch to
// find PubMed identifiers and esummary to fetch per-article metadata.
//
// Both calls follow a best-effort policy. Failed requests are retried with a
// fixed delay and, once the attempts are used up, degrade to an empty result
// instead of an error. The only error either call returns is the caller's
// context error.
package eutils

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/impact-finder/internal/httputil"
	"github.com/pdiddy/impact-finder/internal/observability"
	"github.com/pdiddy/impact-finder/pkg/types"
)

const (
	// DefaultBaseURL is the E-utilities root.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	DefaultTimeout    = 15 * time.Second
	DefaultMaxIDs     = 1000
	DefaultBatchSize  = 200
	DefaultBatchPause = 500 * time.Millisecond
	DefaultUserAgent  = "impact-finder/dev"

	// NCBI allows 3 requests per second per client, 10 with an API key.
	DefaultRequestsPerSecond = 3
	KeyedRequestsPerSecond   = 10

	database = "pubmed"
)

// Endpoint names, also used as metric labels.
const (
	endpointSearch  = "esearch"
	endpointSummary = "esummary"
)

// Client talks to E-utilities. It is safe for concurrent use; concurrent
// calls share one request limiter.
type Client struct {
	cfg     types.EutilsConfig
	http    *http.Client
	limiter *rate.Limiter
	metrics *observability.Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. The configured timeout is
// not applied to a client supplied this way.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics records request and batch outcomes in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client, filling unset configuration fields with defaults.
// A negative RetryDelay, BatchPause or RequestsPerSecond disables the
// corresponding wait.
func New(cfg types.EutilsConfig, opts ...Option) *Client {
	cfg = applyDefaults(cfg)
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Client) Config() types.EutilsConfig { return c.cfg }

func applyDefaults(cfg types.EutilsConfig) types.EutilsConfig {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = httputil.DefaultMaxAttempts
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = httputil.DefaultDelay
	}
	if cfg.MaxIDs <= 0 {
		cfg.MaxIDs = DefaultMaxIDs
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchPause == 0 {
		cfg.BatchPause = DefaultBatchPause
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
		if cfg.APIKey != "" {
			cfg.RequestsPerSecond = KeyedRequestsPerSecond
		}
	}
	return cfg
}

// newRequest builds a GET request for endpoint ("esearch.fcgi" etc.) with the
// common parameters added to params.
func (c *Client) newRequest(ctx context.Context, endpoint string, params url.Values) (*http.Request, error) {
	params.Set("db", database)
	params.Set("retmode", "json")
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	if c.cfg.Tool != "" {
		params.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}

	reqURL := c.cfg.BaseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", endpoint, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) policy() httputil.Policy {
	return httputil.Policy{MaxAttempts: c.cfg.MaxAttempts, Delay: c.cfg.RetryDelay, Limiter: c.limiter}
}
