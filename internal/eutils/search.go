// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eutils

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"

	"github.com/pdiddy/impact-finder/internal/httputil"
)

type esearchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search runs term against PubMed and returns up to MaxIDs PMIDs in the order
// esearch lists them. When every attempt fails the result is empty.
func (c *Client) Search(ctx context.Context, term string) ([]string, error) {
	log := zerolog.Ctx(ctx)

	params := url.Values{}
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(c.cfg.MaxIDs))
	req, err := c.newRequest(ctx, "esearch.fcgi", params)
	if err != nil {
		log.Error().Err(err).Msg("searching PubMed")
		return nil, nil
	}

	var ids []string
	attempts, err := httputil.DoWithRetry(ctx, c.http, req, c.policy(), func(body []byte) (perr error) {
		ids, perr = parseIDList(body)
		return perr
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c.metrics.ObserveRequest(endpointSearch, attempts, err == nil)
	if err != nil {
		log.Error().Err(err).Msg("searching PubMed, continuing with no articles")
		return nil, nil
	}

	log.Info().Int("count", len(ids)).Msg("found articles for query")
	return ids, nil
}

// parseIDList extracts esearchresult.idlist. A body that is not JSON is an
// error; a JSON document without a usable list yields no identifiers.
func parseIDList(body []byte) ([]string, error) {
	var r esearchResponse
	if err := json.Unmarshal(body, &r); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && json.Valid(body) {
			return nil, nil
		}
		return nil, err
	}
	return r.ESearchResult.IDList, nil
}
