// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes the query builder, the E-utilities client and the
// impact filter into a single search run shared by the CLI and the web form.
package pipeline

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/impact-finder/internal/eutils"
	"github.com/pdiddy/impact-finder/internal/journals"
	"github.com/pdiddy/impact-finder/internal/observability"
	"github.com/pdiddy/impact-finder/internal/openalex"
	"github.com/pdiddy/impact-finder/internal/query"
	"github.com/pdiddy/impact-finder/pkg/types"
)

// Index is the citation index the pipeline searches. *eutils.Client
// implements it.
type Index interface {
	Search(ctx context.Context, term string) ([]string, error)
	FetchSummaries(ctx context.Context, ids []string) (eutils.SummaryOutput, error)
}

var _ Index = (*eutils.Client)(nil)

// JournalSource supplies citation metrics for journals. *openalex.Client
// implements it.
type JournalSource interface {
	Lookup(ctx context.Context, names []string) map[string]types.JournalMetrics
}

var _ JournalSource = (*openalex.Client)(nil)

// Request holds the user's search parameters.
type Request struct {
	Topic   string `json:"topic" yaml:"topic"`
	Disease string `json:"disease" yaml:"disease"`
	YearMin int    `json:"year_min" yaml:"year_min"`
}

// Description is the one-line echo of the request shown with results.
func (r Request) Description() string {
	return query.Describe(r.Topic, r.Disease, r.YearMin)
}

// Outcome classifies how far a run got.
type Outcome string

const (
	// OutcomeUnknownTopic means no query could be built.
	OutcomeUnknownTopic Outcome = "unknown_topic"
	// OutcomeNoArticles means the search returned no identifiers.
	OutcomeNoArticles Outcome = "no_articles"
	// OutcomeNoSummaries means identifiers were found but no summary came back.
	OutcomeNoSummaries Outcome = "no_summaries"
	// OutcomeNoHighImpact means summaries were fetched but none passed the filter.
	OutcomeNoHighImpact Outcome = "no_high_impact"
	// OutcomeFound means at least one high-impact paper was kept.
	OutcomeFound Outcome = "found"
)

// Result is the outcome of one run. Papers is never nil.
type Result struct {
	RunID   string  `json:"run_id" yaml:"run_id"`
	Request Request `json:"request" yaml:"request"`
	Query   string  `json:"query,omitempty" yaml:"query,omitempty"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// IDsFound is the number of PMIDs returned by the search.
	IDsFound int `json:"ids_found" yaml:"ids_found"`
	// SummariesFetched is the number of summaries received before filtering.
	SummariesFetched int `json:"summaries_fetched" yaml:"summaries_fetched"`
	// FailedBatches lists dropped esummary batches; non-empty means the
	// result may be incomplete.
	FailedBatches []int `json:"failed_batches,omitempty" yaml:"failed_batches,omitempty"`

	Papers []types.ArticleSummary `json:"papers" yaml:"papers"`

	// ByYear counts the papers per publication year, newest first. Papers
	// whose date cannot be read are left out.
	ByYear []YearCount `json:"by_year,omitempty" yaml:"by_year,omitempty"`

	// JournalMetrics holds the metrics found for the papers' journals, keyed
	// by FullJournalName. It is empty unless journal metrics are enabled.
	JournalMetrics map[string]types.JournalMetrics `json:"journal_metrics,omitempty" yaml:"journal_metrics,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// YearCount is the number of papers published in one year.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// Count is the number of high-impact papers.
func (r Result) Count() int { return len(r.Papers) }

// Partial reports whether some summaries were lost to failed batches.
func (r Result) Partial() bool { return len(r.FailedBatches) > 0 }

// Metrics returns the journal metrics of p, if any were found.
func (r Result) Metrics(p types.ArticleSummary) (types.JournalMetrics, bool) {
	m, ok := r.JournalMetrics[p.FullJournalName]
	return m, ok
}

// Pipeline runs searches against an Index.
type Pipeline struct {
	index    Index
	journals JournalSource
	metrics  *observability.Metrics
	entry    string
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithMetrics records finished runs in m under the given entry point label.
func WithMetrics(m *observability.Metrics, entry string) Option {
	return func(p *Pipeline) {
		p.metrics = m
		p.entry = entry
	}
}

// WithJournalMetrics looks up the metrics of every journal in the result
// through src.
func WithJournalMetrics(src JournalSource) Option {
	return func(p *Pipeline) { p.journals = src }
}

// New creates a pipeline over index.
func New(index Index, opts ...Option) *Pipeline {
	p := &Pipeline{index: index, entry: "cli"}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes build → search → fetch → filter, then looks up journal
// metrics when a JournalSource is set. Failures inside the stages
// degrade to fewer results; the only error returned is ctx's, together with
// whatever had been gathered at that point.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	res := Result{
		RunID:   uuid.NewString(),
		Request: req,
		Papers:  []types.ArticleSummary{},
	}

	log := zerolog.Ctx(ctx).With().Str("run_id", res.RunID).Logger()
	ctx = log.WithContext(ctx)

	finish := func(o Outcome) Result {
		res.Outcome = o
		res.ByYear = countByYear(res.Papers)
		res.Duration = time.Since(start)
		p.metrics.ObserveRun(p.entry, len(res.Papers))
		log.Info().Str("outcome", string(o)).Int("papers", len(res.Papers)).
			Dur("duration", res.Duration).Msg("search finished")
		return res
	}

	q, ok := query.Build(req.Topic, req.Disease, req.YearMin)
	if !ok {
		log.Warn().Str("topic", req.Topic).Msg("unknown topic, no query built")
		return finish(OutcomeUnknownTopic), nil
	}
	res.Query = q
	log.Debug().Str("query", q).Msg("built query")

	ids, err := p.index.Search(ctx, q)
	if err != nil {
		return finish(OutcomeNoArticles), err
	}
	res.IDsFound = len(ids)
	if len(ids) == 0 {
		return finish(OutcomeNoArticles), nil
	}

	out, err := p.index.FetchSummaries(ctx, ids)
	res.SummariesFetched = len(out.Summaries)
	res.FailedBatches = out.FailedBatches
	res.Papers = journals.FilterHighImpact(out.Summaries)
	if err == nil && p.journals != nil && len(res.Papers) > 0 {
		res.JournalMetrics = p.journals.Lookup(ctx, journalNames(res.Papers))
		err = ctx.Err()
	}
	return finish(outcomeFor(res)), err
}

// journalNames lists the distinct journals of papers in order of first
// appearance.
func journalNames(papers []types.ArticleSummary) []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range papers {
		if p.FullJournalName == "" || seen[p.FullJournalName] {
			continue
		}
		seen[p.FullJournalName] = true
		names = append(names, p.FullJournalName)
	}
	return names
}

func countByYear(papers []types.ArticleSummary) []YearCount {
	counts := make(map[int]int)
	for _, p := range papers {
		if y := p.Year(); y > 0 {
			counts[y]++
		}
	}
	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	slices.SortFunc(out, func(a, b YearCount) int { return cmp.Compare(b.Year, a.Year) })
	return out
}

func outcomeFor(r Result) Outcome {
	switch {
	case r.SummariesFetched == 0:
		return OutcomeNoSummaries
	case len(r.Papers) == 0:
		return OutcomeNoHighImpact
	default:
		return OutcomeFound
	}
}
