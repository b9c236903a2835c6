// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// JournalMetrics are citation statistics for one journal as reported by
// OpenAlex.
type JournalMetrics struct {
	// Journal is the display name OpenAlex matched.
	Journal string `json:"journal" yaml:"journal"`
	ISSN    string `json:"issn,omitempty" yaml:"issn,omitempty"`

	// ImpactFactor approximates the journal impact factor with the two-year
	// mean citedness, rounded to two decimals.
	ImpactFactor float64 `json:"impact_factor" yaml:"impact_factor"`

	CitationCount int `json:"citation_count" yaml:"citation_count"`
	HIndex        int `json:"h_index" yaml:"h_index"`
	I10Index      int `json:"i10_index" yaml:"i10_index"`
}
