// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex looks up journal citation metrics in the OpenAlex sources
// index. Lookups are best effort: any failure is logged and reported as "not
// found".
package openalex

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"
	"golang.org/x/time/rate"

	"github.com/pdiddy/impact-finder/internal/httputil"
	"github.com/pdiddy/impact-finder/internal/observability"
	"github.com/pdiddy/impact-finder/pkg/types"
)

const (
	// DefaultBaseURL is the OpenAlex API root.
	DefaultBaseURL = "https://api.openalex.org"

	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "impact-finder/dev"

	// OpenAlex's polite pool allows 10 requests per second.
	DefaultRequestsPerSecond = 10
)

// Lookup outcomes, also used as metric labels.
const (
	outcomeFound    = "found"
	outcomeNotFound = "not_found"
	outcomeFailed   = "failed"
)

// Client queries the OpenAlex sources endpoint. It is safe for concurrent use.
type Client struct {
	cfg     types.OpenAlexConfig
	http    *http.Client
	limiter *rate.Limiter
	metrics *observability.Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithMetrics records lookup outcomes in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client, filling unset configuration fields with defaults.
func New(cfg types.OpenAlexConfig, opts ...Option) *Client {
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

func applyDefaults(cfg types.OpenAlexConfig) types.OpenAlexConfig {
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
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	return cfg
}

// Lookup fetches metrics for each distinct name once and returns those that
// were found, keyed by the name as given. It stops early when ctx is done.
func (c *Client) Lookup(ctx context.Context, names []string) map[string]types.JournalMetrics {
	out := make(map[string]types.JournalMetrics)
	seen := make(map[string]bool)
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if ctx.Err() != nil {
			break
		}
		if m, ok := c.Journal(ctx, name); ok {
			out[name] = m
		}
	}
	return out
}

// Journal returns the metrics of the best OpenAlex match for name. ok is
// false when nothing matched or the request failed.
func (c *Client) Journal(ctx context.Context, name string) (types.JournalMetrics, bool) {
	log := zerolog.Ctx(ctx)

	req, err := c.newRequest(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("journal", name).Msg("looking up journal metrics")
		return types.JournalMetrics{}, false
	}

	var resp sourcesResponse
	_, err = httputil.DoWithRetry(ctx, c.http, req, httputil.Policy{MaxAttempts: 1, Limiter: c.limiter},
		func(body []byte) error {
			if uerr := json.Unmarshal(body, &resp); uerr != nil {
				return fmt.Errorf("parsing OpenAlex response: %w", uerr)
			}
			return nil
		})
	if err != nil {
		if ctx.Err() == nil {
			c.metrics.ObserveJournalLookup(outcomeFailed)
			log.Warn().Err(err).Str("journal", name).Msg("journal metrics unavailable")
		}
		return types.JournalMetrics{}, false
	}
	if len(resp.Results) == 0 {
		c.metrics.ObserveJournalLookup(outcomeNotFound)
		log.Debug().Str("journal", name).Msg("journal not in OpenAlex")
		return types.JournalMetrics{}, false
	}

	c.metrics.ObserveJournalLookup(outcomeFound)
	return resp.Results[0].metrics(), true
}

func (c *Client) newRequest(ctx context.Context, name string) (*http.Request, error) {
	params := url.Values{}
	params.Set("filter", "display_name.search:"+filterValue(name))
	params.Set("per-page", "1")
	if c.cfg.Mailto != "" {
		params.Set("mailto", c.cfg.Mailto)
	}

	reqURL := c.cfg.BaseURL + "/sources?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating sources request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// filterValue makes name safe inside an OpenAlex filter, where commas
// separate filters and pipes separate alternatives.
func filterValue(name string) string {
	r := strings.NewReplacer(",", " ", "|", " ")
	return strings.Join(strings.Fields(r.Replace(name)), " ")
}

type sourcesResponse struct {
	Results []source `json:"results"`
}

type source struct {
	DisplayName  string   `json:"display_name"`
	ISSN         []string `json:"issn"`
	CitedByCount int      `json:"cited_by_count"`
	WorksCount   int      `json:"works_count"`
	SummaryStats struct {
		MeanCitedness float64 `json:"2yr_mean_citedness"`
		HIndex        int     `json:"h_index"`
		I10Index      int     `json:"i10_index"`
	} `json:"summary_stats"`
}

// metrics converts a source record. The impact factor is the two-year mean
// citedness, or all-time citations per work when OpenAlex has no summary
// statistics.
func (s source) metrics() types.JournalMetrics {
	impact := s.SummaryStats.MeanCitedness
	if impact == 0 {
		impact = float64(s.CitedByCount) / float64(max(s.WorksCount, 1))
	}
	m := types.JournalMetrics{
		Journal:       s.DisplayName,
		ImpactFactor:  math.Round(impact*100) / 100,
		CitationCount: s.CitedByCount,
		HIndex:        s.SummaryStats.HIndex,
		I10Index:      s.SummaryStats.I10Index,
	}
	if len(s.ISSN) > 0 {
		m.ISSN = s.ISSN[0]
	}
	return m
}
