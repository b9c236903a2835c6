// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eutils

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"

	"github.com/pdiddy/impact-finder/internal/httputil"
	"github.com/pdiddy/impact-finder/pkg/types"
)

// uidsKey is the administrative entry of an esummary result object listing
// the requested identifiers. It is not a summary.
const uidsKey = "uids"

// SummaryOutput holds the summaries gathered by FetchSummaries together with
// per-batch bookkeeping.
type SummaryOutput struct {
	// Summaries are the decoded records, in batch order and, within a batch,
	// in the order the response listed them.
	Summaries []types.ArticleSummary

	// Batches is the number of batches the identifiers were split into.
	Batches int

	// FailedBatches lists the zero-based indexes of batches whose attempts
	// were exhausted and that contributed no summaries.
	FailedBatches []int
}

// Partial reports whether at least one batch was dropped.
func (o SummaryOutput) Partial() bool { return len(o.FailedBatches) > 0 }

// FetchSummaries retrieves esummary records for ids in batches of BatchSize.
// A batch whose attempts are exhausted is skipped; the other batches are
// still fetched. After every batch but the last, FetchSummaries waits
// BatchPause before starting the next one.
//
// If ctx is cancelled, the summaries gathered so far are returned with
// ctx.Err().
func (c *Client) FetchSummaries(ctx context.Context, ids []string) (SummaryOutput, error) {
	var out SummaryOutput
	if len(ids) == 0 {
		return out, nil
	}
	log := zerolog.Ctx(ctx)

	batches := chunk(ids, c.cfg.BatchSize)
	out.Batches = len(batches)

	for i, batch := range batches {
		if i > 0 {
			if err := httputil.Sleep(ctx, c.cfg.BatchPause); err != nil {
				return out, err
			}
		}

		summaries, ok := c.fetchBatch(ctx, batch)
		if err := ctx.Err(); err != nil {
			return out, err
		}
		c.metrics.ObserveBatch(ok)
		if !ok {
			log.Warn().Int("batch", i+1).Int("batches", len(batches)).Int("ids", len(batch)).
				Msg("dropping summary batch after exhausting retries")
			out.FailedBatches = append(out.FailedBatches, i)
			continue
		}
		out.Summaries = append(out.Summaries, summaries...)
	}

	log.Info().Int("count", len(out.Summaries)).Int("batches", out.Batches).
		Int("failed_batches", len(out.FailedBatches)).Msg("fetched summaries")
	return out, nil
}

// fetchBatch requests one esummary batch. ok is false when every attempt
// failed.
func (c *Client) fetchBatch(ctx context.Context, batch []string) ([]types.ArticleSummary, bool) {
	log := zerolog.Ctx(ctx)

	params := url.Values{}
	params.Set("id", strings.Join(batch, ","))
	req, err := c.newRequest(ctx, "esummary.fcgi", params)
	if err != nil {
		log.Error().Err(err).Msg("fetching summaries")
		return nil, false
	}

	var summaries []types.ArticleSummary
	attempts, err := httputil.DoWithRetry(ctx, c.http, req, c.policy(), func(body []byte) (derr error) {
		summaries, derr = decodeSummaries(body)
		return derr
	})
	if ctx.Err() == nil {
		c.metrics.ObserveRequest(endpointSummary, attempts, err == nil)
	}
	if err != nil {
		return nil, false
	}
	return summaries, true
}

// chunk splits ids into consecutive slices of at most size elements.
func chunk(ids []string, size int) [][]string {
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}

// decodeSummaries reads the "result" object of an esummary response. Keys
// are visited in document order so the summaries keep the order the server
// sent them in. A body that is not JSON is an error; a missing result object
// or entries that are not summary objects are skipped.
func decodeSummaries(body []byte) ([]types.ArticleSummary, error) {
	var doc struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && json.Valid(body) {
			return nil, nil
		}
		return nil, err
	}

	var out []types.ArticleSummary
	for _, e := range resultEntries(doc.Result) {
		if e.key == uidsKey {
			continue
		}
		var s types.ArticleSummary
		if err := json.Unmarshal(e.value, &s); err != nil {
			continue
		}
		if s.UID == "" {
			s.UID = e.key
		}
		out = append(out, s)
	}
	return out, nil
}

type resultEntry struct {
	key   string
	value []byte
}

// resultEntries returns the members of the JSON object raw whose values are
// objects, in document order. Anything else, including raw not being an
// object, yields nothing.
func resultEntries(raw []byte) []resultEntry {
	var entries []resultEntry
	var key string
	start := -1
	first := true

	t := json.NewTokenizer(raw)
	for t.Next() {
		if first {
			if t.Delim != '{' {
				return nil
			}
			first = false
			continue
		}
		if t.Depth != 1 {
			continue
		}
		switch {
		case t.IsKey:
			key = string(t.String())
		case t.Delim == '{':
			start = len(raw) - t.Remaining() - 1
		case t.Delim == '}' && start >= 0:
			end := len(raw) - t.Remaining()
			entries = append(entries, resultEntry{key: key, value: raw[start:end]})
			start = -1
		}
	}
	return entries
}
