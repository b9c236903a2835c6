// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"

	"github.com/pdiddy/impact-finder/internal/pipeline"
	"github.com/pdiddy/impact-finder/internal/query"
	"github.com/pdiddy/impact-finder/pkg/types"
)

// searchForm mirrors the POST /search form fields. An unknown or empty
// article type is passed on; the pipeline reports it as an unknown topic.
type searchForm struct {
	ArticleType string
	Disease     string `validate:"required"`
	Year        int
}

type indexPage struct {
	Title    string
	Topics   []string
	Selected string
	Disease  string
	Year     int
	Error    string
}

type resultsPage struct {
	Title   string
	Query   string
	Count   int
	Partial bool
	ByYear  []pipeline.YearCount
	Papers  []paperRow
}

// paperRow is one listed paper with its journal's metrics, if known.
type paperRow struct {
	types.ArticleSummary
	Metrics *types.JournalMetrics
}

func paperRows(res pipeline.Result) []paperRow {
	rows := make([]paperRow, len(res.Papers))
	for i, p := range res.Papers {
		rows[i] = paperRow{ArticleSummary: p}
		if m, ok := res.Metrics(p); ok {
			rows[i].Metrics = &m
		}
	}
	return rows
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index", s.newIndexPage(searchForm{Year: query.DefaultYear}, ""))
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "index",
			s.newIndexPage(searchForm{Year: query.DefaultYear}, "Could not read the submitted form."))
		return
	}

	form := searchForm{
		ArticleType: strings.TrimSpace(r.PostForm.Get("article_type")),
		Disease:     strings.TrimSpace(r.PostForm.Get("disease")),
		Year:        query.ParseYear(r.PostForm.Get("year")),
	}
	if err := s.validate.Struct(form); err != nil {
		s.render(w, r, http.StatusBadRequest, "index", s.newIndexPage(form, formError(err)))
		return
	}

	req := pipeline.Request{Topic: form.ArticleType, Disease: form.Disease, YearMin: form.Year}
	res, err := s.runner.Run(r.Context(), req)
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("search interrupted")
	}

	s.render(w, r, http.StatusOK, "results", resultsPage{
		Title:   "Results",
		Query:   req.Description(),
		Count:   res.Count(),
		Partial: res.Partial(),
		ByYear:  res.ByYear,
		Papers:  paperRows(res),
	})
}

func (s *Server) newIndexPage(form searchForm, msg string) indexPage {
	return indexPage{
		Title:    "High-impact paper search",
		Topics:   query.Topics(),
		Selected: form.ArticleType,
		Disease:  form.Disease,
		Year:     form.Year,
		Error:    msg,
	}
}

// formError turns validation errors into a message for the form.
func formError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form submission."
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return fe.Field() + " is required."
	}
	return fe.Field() + " is invalid."
}

// render executes a page into a buffer first so a template error never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("rendering page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
