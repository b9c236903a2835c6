// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journals holds the static allow-list of high-impact journals and
// the filter that classifies PubMed summaries against it.
package journals

import (
	"sort"
	"strings"

	"github.com/pdiddy/impact-finder/pkg/types"
)

// Set is a set of lower-cased journal names.
type Set map[string]struct{}

// Contains reports whether name, case-folded, is an exact member of s.
func (s Set) Contains(name string) bool {
	if name == "" {
		return false
	}
	_, ok := s[strings.ToLower(name)]
	return ok
}

// Names returns the members of s in sorted order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func newSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[strings.ToLower(n)] = struct{}{}
	}
	return s
}

// highImpact is matched against esummary "fulljournalname" values.
var highImpact = newSet(
	// General science and medicine
	"nature",
	"science",
	"cell",
	"the new england journal of medicine",
	"the lancet",
	"jama",
	"the bmj",
	"nature medicine",
	"cell metabolism",
	"nature genetics",
	"lancet oncology",
	"nature biotechnology",
	"nature methods",

	// Bioinformatics and computational biology
	"bioinformatics",
	"nucleic acids research",
	"plos computational biology",
	"genome biology",
	"briefings in bioinformatics",

	// Oncology, cardiology, immunology
	"cancer cell",
	"cancer discovery",
	"journal of clinical oncology",
	"annals of oncology",
	"gut",
	"circulation",
	"european heart journal",
	"immunity",

	// High-volume field journals
	"frontiers in immunology",
	"frontiers in oncology",
	"cancers",
	"scientific reports",
	"plos one",
	"international journal of molecular sciences",
	"cell communication and signaling : ccs",
	"journal of hepatocellular carcinoma",
	"journal for immunotherapy of cancer",
)

// HighImpact returns the allow-list names in sorted order.
func HighImpact() []string {
	return highImpact.Names()
}

// IsHighImpact reports whether the article's full journal name is on the
// allow-list. A missing journal name is never high impact.
func IsHighImpact(a types.ArticleSummary) bool {
	return IsHighImpactName(a.FullJournalName)
}

// IsHighImpactName reports whether name is on the allow-list.
func IsHighImpactName(name string) bool {
	return highImpact.Contains(name)
}

// FilterHighImpact returns the high-impact summaries in their input order.
func FilterHighImpact(in []types.ArticleSummary) []types.ArticleSummary {
	out := make([]types.ArticleSummary, 0, len(in))
	for _, a := range in {
		if IsHighImpact(a) {
			out = append(out, a)
		}
	}
	return out
}
