// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the impact-finder pipeline:
// the article summaries returned by PubMed and the configuration of every stage.
package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// pubmedLinkBase is the public landing page prefix for a PMID.
const pubmedLinkBase = "https://pubmed.ncbi.nlm.nih.gov/"

// Author is one entry of the esummary authors list.
type Author struct {
	Name     string `json:"name" yaml:"name"`
	AuthType string `json:"authtype,omitempty" yaml:"authtype,omitempty"`
}

// ArticleID is one entry of the esummary articleids list (pubmed, doi, pmc, ...).
type ArticleID struct {
	IDType string `json:"idtype" yaml:"idtype"`
	Value  string `json:"value" yaml:"value"`
}

// ArticleSummary describes one PubMed article as returned by esummary.fcgi.
// Field names follow the E-utilities JSON document; values are kept verbatim.
type ArticleSummary struct {
	// UID is the PubMed identifier (PMID).
	UID string `json:"uid" yaml:"uid"`

	Title string `json:"title" yaml:"title"`

	// FullJournalName is the unabbreviated journal title, used by the impact filter.
	FullJournalName string `json:"fulljournalname" yaml:"fulljournalname"`

	// Source is the abbreviated journal title (ISO abbreviation).
	Source string `json:"source" yaml:"source"`

	// PubDate is the free-form publication date, e.g. "2023 Jan 15" or "2022".
	PubDate  string `json:"pubdate" yaml:"pubdate"`
	EPubDate string `json:"epubdate,omitempty" yaml:"epubdate,omitempty"`

	Authors    []Author    `json:"authors,omitempty" yaml:"authors,omitempty"`
	Volume     string      `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue      string      `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages      string      `json:"pages,omitempty" yaml:"pages,omitempty"`
	ArticleIDs []ArticleID `json:"articleids,omitempty" yaml:"articleids,omitempty"`
	PubTypes   []string    `json:"pubtype,omitempty" yaml:"pubtype,omitempty"`

	// Error is set by E-utilities when the UID could not be summarized.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Link returns the PubMed landing page URL for the article.
func (a ArticleSummary) Link() string {
	return pubmedLinkBase + a.UID + "/"
}

// DOI returns the DOI listed in the article identifiers, or "".
func (a ArticleSummary) DOI() string {
	for _, id := range a.ArticleIDs {
		if strings.EqualFold(id.IDType, "doi") {
			return id.Value
		}
	}
	return ""
}

// published parses PubDate into a time. PubMed dates are free-form
// ("2023 Jan 15", "2023 Jan-Feb", "2022"); when the full string does not
// parse, the leading four-digit year is used. ok is false if neither works.
func (a ArticleSummary) published() (t time.Time, ok bool) {
	s := strings.TrimSpace(a.PubDate)
	if s == "" {
		return time.Time{}, false
	}
	if parsed, err := dateparse.ParseAny(s); err == nil {
		return parsed, true
	}
	if y := leadingYear(s); y > 0 {
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// Year returns the publication year, or 0 when PubDate is unusable. Reports
// group papers by it.
func (a ArticleSummary) Year() int {
	t, ok := a.published()
	if !ok {
		return 0
	}
	return t.Year()
}

func leadingYear(s string) int {
	if len(s) < 4 {
		return 0
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil || y < 1000 {
		return 0
	}
	return y
}
