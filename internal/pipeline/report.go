// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/segmentio/encoding/json"
	"go.yaml.in/yaml/v3"
)

// Format selects the report writer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q: use text, json, or yaml", s)
	}
}

// Write renders res to w in the given format.
func Write(w io.Writer, res Result, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatYAML:
		return WriteYAML(w, res)
	default:
		WriteText(w, res)
		return nil
	}
}

// WriteBanner writes the header printed before a CLI run starts.
func WriteBanner(w io.Writer, req Request) {
	rule := strings.Repeat("-", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Starting search for high-impact papers...")
	fmt.Fprintf(w, "   Type:    %s\n", req.Topic)
	fmt.Fprintf(w, "   Disease: %s\n", req.Disease)
	fmt.Fprintf(w, "   Since:   %d\n", req.YearMin)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// WriteText writes the numbered human-readable report. Every outcome,
// including the empty ones, produces a message.
func WriteText(w io.Writer, res Result) {
	switch res.Outcome {
	case OutcomeUnknownTopic:
		fmt.Fprintln(w, "Could not build the query. Exiting.")
		return
	case OutcomeNoArticles:
		fmt.Fprintln(w, "No articles found for the given query.")
		return
	case OutcomeNoSummaries:
		fmt.Fprintln(w, "Could not fetch summaries for the found PMIDs.")
		return
	}

	fmt.Fprintf(w, "Found %d high-impact papers!\n", res.Count())
	if res.Partial() {
		fmt.Fprintf(w, "Note: %d summary batch(es) could not be fetched; results may be incomplete.\n",
			len(res.FailedBatches))
	}
	fmt.Fprintln(w)

	if res.Count() == 0 {
		fmt.Fprintln(w, "No papers found in the specified high-impact journals for this query.")
		fmt.Fprintln(w, "Consider broadening your search or choosing a different topic.")
		return
	}

	if len(res.ByYear) > 0 {
		fmt.Fprintf(w, "By year: %s\n\n", formatByYear(res.ByYear))
	}

	fmt.Fprintln(w, "--- Top Results ---")
	for i, p := range res.Papers {
		fmt.Fprintf(w, "%d. %s\n", i+1, orDefault(p.Title, "No Title"))
		fmt.Fprintf(w, "   - Journal: %s\n", orDefault(p.FullJournalName, "No Journal"))
		if m, ok := res.Metrics(p); ok {
			fmt.Fprintf(w, "   - Impact:  %.2f (h-index %d)\n", m.ImpactFactor, m.HIndex)
		}
		fmt.Fprintf(w, "   - Date:    %s\n", orDefault(p.PubDate, "No Date"))
		if doi := p.DOI(); doi != "" {
			fmt.Fprintf(w, "   - DOI:     %s\n", doi)
		}
		fmt.Fprintf(w, "   - Link:    %s\n\n", p.Link())
	}
}

// WriteJSON writes res as indented JSON.
func WriteJSON(w io.Writer, res Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteYAML writes res as a YAML document.
func WriteYAML(w io.Writer, res Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encoding YAML report: %w", err)
	}
	return enc.Close()
}

// formatByYear renders counts as "2024 (3), 2023 (5)".
func formatByYear(counts []YearCount) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%d (%d)", c.Year, c.Count)
	}
	return strings.Join(parts, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
