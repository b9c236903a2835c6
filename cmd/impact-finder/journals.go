// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/impact-finder/internal/journals"
)

var journalsCmd = &cobra.Command{
	Use:   "journals [name...]",
	Short: "List the high-impact journals, or check names against the list",
	Long: `Without arguments, journals prints the allow-list used by the impact
filter. With arguments, it reports for each name whether it matches a listed
journal. Matching ignores case but is otherwise exact.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		writeJournals(cmd.OutOrStdout(), args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journalsCmd)
}

func writeJournals(w io.Writer, names []string) {
	if len(names) == 0 {
		for _, name := range journals.HighImpact() {
			fmt.Fprintln(w, name)
		}
		return
	}
	for _, name := range names {
		verdict := "not listed"
		if journals.IsHighImpactName(name) {
			verdict = "high impact"
		}
		fmt.Fprintf(w, "%s: %s\n", name, verdict)
	}
}
