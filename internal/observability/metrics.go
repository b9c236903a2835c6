// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "impact_finder"

// Metrics holds the counters and histograms of one process. All methods are
// safe to call on a nil *Metrics, which records nothing.
type Metrics struct {
	// Requests counts E-utilities requests by endpoint and final outcome
	// ("ok" or "exhausted").
	Requests *prometheus.CounterVec

	// Attempts counts individual HTTP attempts by endpoint, retries included.
	Attempts *prometheus.CounterVec

	// Batches counts esummary batches by outcome ("ok" or "failed").
	Batches *prometheus.CounterVec

	// Runs counts pipeline runs by entry point ("cli" or "web").
	Runs *prometheus.CounterVec

	// HighImpactPapers observes the number of papers kept per run.
	HighImpactPapers prometheus.Histogram

	// JournalLookups counts OpenAlex journal lookups by outcome ("found",
	// "not_found" or "failed").
	JournalLookups *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eutils",
			Name:      "requests_total",
			Help:      "E-utilities requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eutils",
			Name:      "attempts_total",
			Help:      "HTTP attempts made against E-utilities, including retries.",
		}, []string{"endpoint"}),
		Batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eutils",
			Name:      "summary_batches_total",
			Help:      "esummary batches by outcome.",
		}, []string{"outcome"}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Pipeline runs by entry point.",
		}, []string{"entry"}),
		HighImpactPapers: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "high_impact_papers",
			Help:      "Papers kept by the impact filter per run.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		JournalLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "openalex",
			Name:      "journal_lookups_total",
			Help:      "OpenAlex journal metric lookups by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveRequest records the outcome of one logical request.
func (m *Metrics) ObserveRequest(endpoint string, attempts int, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "exhausted"
	}
	m.Requests.WithLabelValues(endpoint, outcome).Inc()
	m.Attempts.WithLabelValues(endpoint).Add(float64(attempts))
}

// ObserveBatch records one esummary batch.
func (m *Metrics) ObserveBatch(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.Batches.WithLabelValues("ok").Inc()
		return
	}
	m.Batches.WithLabelValues("failed").Inc()
}

// ObserveRun records a finished pipeline run.
func (m *Metrics) ObserveRun(entry string, kept int) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(entry).Inc()
	m.HighImpactPapers.Observe(float64(kept))
}

// ObserveJournalLookup records one OpenAlex journal lookup.
func (m *Metrics) ObserveJournalLookup(outcome string) {
	if m == nil {
		return
	}
	m.JournalLookups.WithLabelValues(outcome).Inc()
}
