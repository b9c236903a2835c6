// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/impact-finder/internal/query"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the research topics and their query fragments",
	Long: `Topics prints every topic key accepted by --topic and by the web form,
with the PubMed query fragments it contributes. With --disease the full query
for each topic is printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		disease, _ := cmd.Flags().GetString("disease")
		year, _ := cmd.Flags().GetString("year")
		writeTopics(cmd.OutOrStdout(), disease, query.ParseYear(year))
		return nil
	},
}

func init() {
	topicsCmd.Flags().String("disease", "", "print the full query for this disease")
	topicsCmd.Flags().String("year", "", "earliest publication year for --disease")
	rootCmd.AddCommand(topicsCmd)
}

func writeTopics(w io.Writer, disease string, year int) {
	for _, topic := range query.Topics() {
		fmt.Fprintln(w, topic)
		if disease != "" {
			q, _ := query.Build(topic, disease, year)
			fmt.Fprintf(w, "  %s\n\n", q)
			continue
		}
		t, _ := query.Lookup(topic)
		for _, f := range []struct{ label, value string }{
			{"core", t.Core}, {"db", t.DB}, {"source", t.Source}, {"expand", t.Expand},
		} {
			if f.value != "" {
				fmt.Fprintf(w, "  %-7s %s\n", f.label+":", f.value)
			}
		}
		fmt.Fprintln(w)
	}
}
