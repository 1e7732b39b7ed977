package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/services/stats"
)

var csvOut *string

func init() {
	csvOut = csvCmd.Flags().String("out", "speaker_summary.csv", "The CSV file to write, \"-\" for stdout.")
	rootCmd.AddCommand(csvCmd)
}

var csvCmd = &cobra.Command{
	Use:   "csv [--out <path>]",
	Short: "Exports the per-speaker summary as CSV.",
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		service, database := openService(config)
		defer database.Close()

		speakers, err := service.SpeakerStats(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to compute speaker stats", err)
		}

		out := os.Stdout
		if *csvOut != "-" {
			out, err = os.Create(*csvOut)
			if err != nil {
				serviceutil.Fatal("failed to create CSV file", err)
			}
			defer out.Close()
		}

		if err := stats.WriteCSV(out, speakers); err != nil {
			serviceutil.Fatal("failed to write CSV", err)
		}
		if *csvOut != "-" {
			slog.Info("CSV written", "path", *csvOut, "speakers", len(speakers))
		}
	},
}
