// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/impact-finder/internal/observability"
	"github.com/pdiddy/impact-finder/pkg/types"
)

const gutSource = `{"meta":{"count":1},"results":[{"display_name":"Gut","issn":["0017-5749","1468-3288"],
"cited_by_count":1500000,"works_count":30000,
"summary_stats":{"2yr_mean_citedness":23.456,"h_index":400,"i10_index":12000}}]}`

// sourcesServer answers /sources requests from a fixed table keyed by the
// searched name and records every filter it saw.
type sourcesServer struct {
	bodies map[string]string

	mu      sync.Mutex
	filters []string
	mailto  []string
}

func (s *sourcesServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := q.Get("filter")
	s.mu.Lock()
	s.filters = append(s.filters, filter)
	s.mailto = append(s.mailto, q.Get("mailto"))
	s.mu.Unlock()

	if r.URL.Path != "/sources" || q.Get("per-page") != "1" {
		http.NotFound(w, r)
		return
	}
	body, ok := s.bodies[strings.TrimPrefix(filter, "display_name.search:")]
	if !ok {
		fmt.Fprint(w, `{"meta":{"count":0},"results":[]}`)
		return
	}
	if body == "" {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	fmt.Fprint(w, body)
}

func testCfg(baseURL string) types.OpenAlexConfig {
	return types.OpenAlexConfig{
		HTTPConfig:        types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		Enabled:           true,
		BaseURL:           baseURL,
		RequestsPerSecond: -1,
	}
}

func TestJournalFound(t *testing.T) {
	srv := &sourcesServer{bodies: map[string]string{"Gut": gutSource}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	cfg := testCfg(ts.URL + "/")
	cfg.Mailto = "me@example.org"
	m, ok := New(cfg).Journal(context.Background(), "Gut")
	require.True(t, ok)
	assert.Equal(t, types.JournalMetrics{
		Journal:       "Gut",
		ISSN:          "0017-5749",
		ImpactFactor:  23.46,
		CitationCount: 1500000,
		HIndex:        400,
		I10Index:      12000,
	}, m)
	assert.Equal(t, []string{"me@example.org"}, srv.mailto)
}

func TestJournalImpactFallback(t *testing.T) {
	body := `{"results":[{"display_name":"Small","cited_by_count":100,"works_count":3}]}`
	srv := &sourcesServer{bodies: map[string]string{"Small": body}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	m, ok := New(testCfg(ts.URL)).Journal(context.Background(), "Small")
	require.True(t, ok)
	assert.Equal(t, 33.33, m.ImpactFactor)
	assert.Empty(t, m.ISSN)
}

func TestJournalDegrades(t *testing.T) {
	tests := []struct {
		name    string
		journal string
		bodies  map[string]string
		outcome string
	}{
		{"no match", "Unknown Journal", nil, outcomeNotFound},
		{"server error", "Gut", map[string]string{"Gut": ""}, outcomeFailed},
		{"not json", "Gut", map[string]string{"Gut": "<html>"}, outcomeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &sourcesServer{bodies: tt.bodies}
			ts := httptest.NewServer(srv)
			defer ts.Close()

			metrics := observability.NewMetrics(prometheus.NewRegistry())
			_, ok := New(testCfg(ts.URL), WithMetrics(metrics)).Journal(context.Background(), tt.journal)
			assert.False(t, ok)
			assert.Len(t, srv.filters, 1, "lookups are not retried")
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.JournalLookups.WithLabelValues(tt.outcome)))
		})
	}
}

func TestJournalUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, ok := New(testCfg(url)).Journal(context.Background(), "Gut")
	assert.False(t, ok)
}

func TestLookupDeduplicates(t *testing.T) {
	srv := &sourcesServer{bodies: map[string]string{"Gut": gutSource}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	got := New(testCfg(ts.URL)).Lookup(context.Background(), []string{"Gut", "", "Cancers", "Gut"})
	assert.Equal(t, []string{"display_name.search:Gut", "display_name.search:Cancers"}, srv.filters)
	require.Len(t, got, 1)
	assert.Equal(t, 23.46, got["Gut"].ImpactFactor)
}

func TestLookupStopsWhenCancelled(t *testing.T) {
	srv := &sourcesServer{}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := New(testCfg(ts.URL)).Lookup(ctx, []string{"Gut", "Nature"})
	assert.Empty(t, got)
	assert.Empty(t, srv.filters)
}

func TestLookupIsRateLimited(t *testing.T) {
	srv := &sourcesServer{}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	cfg := testCfg(ts.URL)
	cfg.RequestsPerSecond = 20
	start := time.Now()
	New(cfg).Lookup(context.Background(), []string{"A", "B", "C"})
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Len(t, srv.filters, 3)
}

func TestFilterValue(t *testing.T) {
	assert.Equal(t, "Lancet. Oncology", filterValue("Lancet. Oncology"))
	assert.Equal(t, "Journal of Hepatology A B", filterValue("Journal of Hepatology, A|B"))
	assert.Equal(t, "Gut", filterValue("  Gut "))
}

func TestApplyDefaults(t *testing.T) {
	cfg := applyDefaults(types.OpenAlexConfig{})
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, float64(DefaultRequestsPerSecond), cfg.RequestsPerSecond)

	assert.Nil(t, New(types.OpenAlexConfig{RequestsPerSecond: -1}).limiter)
}
