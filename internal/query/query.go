// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns a research topic and a disease keyword into a PubMed
// search expression using a fixed table of topic templates.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultYear is the minimum publication year used when the caller's value
// is missing or not an integer.
const DefaultYear = 2021

// openEndYear is the upper bound of the publication date range. PubMed has
// no open-ended range syntax, so a far-future year stands in for "no limit".
const openEndYear = 3000

// Build assembles the PubMed query for topic, disease and yearMin. It returns
// false when topic is not a known template key.
func Build(topic, disease string, yearMin int) (string, bool) {
	t, ok := templates[topic]
	if !ok {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, `(%s) AND ("%s"[Title/Abstract])`, t.Core, disease)
	for _, frag := range []string{t.DB, t.Source, t.Expand} {
		if frag != "" {
			b.WriteByte(' ')
			b.WriteString(frag)
		}
	}
	fmt.Fprintf(&b, ` AND ("%d"[Date - Publication] : "%d"[Date - Publication])`, yearMin, openEndYear)
	return b.String(), true
}

// ParseYear converts a form or flag value to a year, falling back to
// DefaultYear when s is empty or not an integer.
func ParseYear(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultYear
	}
	return y
}

// Describe returns the one-line summary shown next to results, e.g.
// "WGCNA on 'lung cancer' since 2021".
func Describe(topic, disease string, yearMin int) string {
	return fmt.Sprintf("%s on '%s' since %d", topic, disease, yearMin)
}
