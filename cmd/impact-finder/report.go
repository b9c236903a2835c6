// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/impact-finder/internal/pipeline"
	"github.com/pdiddy/impact-finder/internal/query"
)

// The example search run when no flags are given.
const (
	defaultTopic   = "Prognostic Model"
	defaultDisease = "hepatocellular carcinoma"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Search PubMed and print the high-impact papers",
	Long: `Report builds the PubMed query for --topic and --disease, restricted to
papers published since --year, and prints the papers that appeared in a
high-impact journal.

Every pipeline outcome, including "no articles found", is a normal result and
exits 0. An unparseable --year falls back to 2021.`,
	RunE: runReportCmd,
}

func init() {
	addReportFlags(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("topic", defaultTopic, "research topic (see 'impact-finder topics')")
	cmd.Flags().String("disease", defaultDisease, "disease or condition to search for")
	cmd.Flags().String("year", strconv.Itoa(query.DefaultYear), "earliest publication year")
	cmd.Flags().StringP("format", "f", string(pipeline.FormatText), "output format: text, json, or yaml")
	cmd.Flags().Bool("show-query", false, "print the generated PubMed query")
	cmd.Flags().Bool("journal-metrics", false, "look up journal metrics in OpenAlex (default from openalex.enabled)")
}

type reportOptions struct {
	req       pipeline.Request
	format    pipeline.Format
	showQuery bool
}

func reportOptionsFromFlags(cmd *cobra.Command) (reportOptions, error) {
	topic, _ := cmd.Flags().GetString("topic")
	disease, _ := cmd.Flags().GetString("disease")
	year, _ := cmd.Flags().GetString("year")
	formatStr, _ := cmd.Flags().GetString("format")
	showQuery, _ := cmd.Flags().GetBool("show-query")

	format, err := pipeline.ParseFormat(formatStr)
	if err != nil {
		return reportOptions{}, err
	}
	return reportOptions{
		req:       pipeline.Request{Topic: topic, Disease: disease, YearMin: query.ParseYear(year)},
		format:    format,
		showQuery: showQuery,
	}, nil
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	opts, err := reportOptionsFromFlags(cmd)
	if err != nil {
		return err
	}
	cfg := loadConfig(viper.GetViper(), loadedSecrets)
	if cmd.Flags().Changed("journal-metrics") {
		cfg.OpenAlex.Enabled, _ = cmd.Flags().GetBool("journal-metrics")
	}
	p := newPipeline(cfg, nil, "cli")
	return runReport(cmd.Context(), cmd.OutOrStdout(), p, opts)
}

// runReport runs one search and writes the report to w. Only an interrupted
// run returns an error, after the partial report has been written.
func runReport(ctx context.Context, w io.Writer, p *pipeline.Pipeline, opts reportOptions) error {
	text := opts.format == pipeline.FormatText
	if text {
		pipeline.WriteBanner(w, opts.req)
	}

	res, runErr := p.Run(ctx, opts.req)
	if runErr != nil {
		zerolog.Ctx(ctx).Warn().Err(runErr).Msg("search interrupted, reporting what was gathered")
	}

	if text && opts.showQuery && res.Query != "" {
		fmt.Fprintf(w, "Query: %s\n\n", res.Query)
	}
	if err := pipeline.Write(w, res, opts.format); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return runErr
}
