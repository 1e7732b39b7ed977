package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/services/stats"
)

var aliasThreshold *float64

func init() {
	aliasThreshold = aliasesCmd.Flags().Float64(
		"threshold", stats.DefaultAliasThreshold,
		"Minimum Jaro-Winkler similarity for a suggestion.",
	)
	rootCmd.AddCommand(aliasesCmd)
}

var aliasesCmd = &cobra.Command{
	Use:   "aliases [--threshold <similarity>]",
	Short: "Flags speaker names that likely refer to the same person.",
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		service, database := openService(config)
		defer database.Close()

		speakers, err := service.SpeakerStats(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to compute speaker stats", err)
		}

		names := make([]string, len(speakers))
		for i, s := range speakers {
			names[i] = s.Speaker
		}
		suggestions := stats.SuggestAliases(names, *aliasThreshold)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Speaker", "Possible Alias", "Similarity"})
		for _, s := range suggestions {
			t.AppendRow(table.Row{s.A, s.B, fmt.Sprintf("%.3f", s.Similarity)})
		}
		t.Render()
	},
}
