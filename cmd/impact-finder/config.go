// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/impact-finder/internal/eutils"
	"github.com/pdiddy/impact-finder/internal/httputil"
	"github.com/pdiddy/impact-finder/internal/observability"
	"github.com/pdiddy/impact-finder/internal/openalex"
	"github.com/pdiddy/impact-finder/internal/pipeline"
	"github.com/pdiddy/impact-finder/internal/secrets"
	"github.com/pdiddy/impact-finder/pkg/types"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("eutils.base_url", eutils.DefaultBaseURL)
	v.SetDefault("eutils.api_key", "")
	v.SetDefault("eutils.tool", "")
	v.SetDefault("eutils.email", "")
	v.SetDefault("eutils.user_agent", "impact-finder/"+version)
	v.SetDefault("eutils.timeout", eutils.DefaultTimeout)
	v.SetDefault("eutils.max_attempts", httputil.DefaultMaxAttempts)
	v.SetDefault("eutils.retry_delay", httputil.DefaultDelay)
	v.SetDefault("eutils.max_ids", eutils.DefaultMaxIDs)
	v.SetDefault("eutils.batch_size", eutils.DefaultBatchSize)
	v.SetDefault("eutils.batch_pause", eutils.DefaultBatchPause)
	v.SetDefault("eutils.requests_per_second", 0)

	v.SetDefault("openalex.enabled", false)
	v.SetDefault("openalex.base_url", openalex.DefaultBaseURL)
	v.SetDefault("openalex.mailto", "")
	v.SetDefault("openalex.user_agent", "impact-finder/"+version)
	v.SetDefault("openalex.timeout", openalex.DefaultTimeout)
	v.SetDefault("openalex.requests_per_second", openalex.DefaultRequestsPerSecond)

	v.SetDefault("server.address", ":5001")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// newPipeline wires the E-utilities client, and the OpenAlex client when it
// is enabled, into a pipeline that records metrics under entry. m may be nil.
func newPipeline(cfg types.Config, m *observability.Metrics, entry string) *pipeline.Pipeline {
	opts := []pipeline.Option{pipeline.WithMetrics(m, entry)}
	if cfg.OpenAlex.Enabled {
		opts = append(opts, pipeline.WithJournalMetrics(openalex.New(cfg.OpenAlex, openalex.WithMetrics(m))))
	}
	return pipeline.New(eutils.New(cfg.Eutils, eutils.WithMetrics(m)), opts...)
}

// loadConfig reads the effective configuration from v. A key or email found
// in the secrets store is used only when the configuration leaves it empty.
func loadConfig(v *viper.Viper, s secrets.Store) types.Config {
	return types.Config{
		Eutils: types.EutilsConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("eutils.timeout"),
				UserAgent: v.GetString("eutils.user_agent"),
			},
			BaseURL:     v.GetString("eutils.base_url"),
			APIKey:      s.Or(secrets.NCBIAPIKey, v.GetString("eutils.api_key")),
			Tool:        v.GetString("eutils.tool"),
			Email:       s.Or(secrets.NCBIEmail, v.GetString("eutils.email")),
			MaxAttempts: v.GetInt("eutils.max_attempts"),
			RetryDelay:  v.GetDuration("eutils.retry_delay"),
			MaxIDs:      v.GetInt("eutils.max_ids"),
			BatchSize:   v.GetInt("eutils.batch_size"),
			BatchPause:  v.GetDuration("eutils.batch_pause"),

			RequestsPerSecond: v.GetFloat64("eutils.requests_per_second"),
		},
		OpenAlex: types.OpenAlexConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("openalex.timeout"),
				UserAgent: v.GetString("openalex.user_agent"),
			},
			Enabled:           v.GetBool("openalex.enabled"),
			BaseURL:           v.GetString("openalex.base_url"),
			Mailto:            s.Or(secrets.OpenAlexEmail, v.GetString("openalex.mailto")),
			RequestsPerSecond: v.GetFloat64("openalex.requests_per_second"),
		},
		Server: types.ServerConfig{
			Address:      v.GetString("server.address"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}
