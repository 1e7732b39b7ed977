package commands

import (
	"os"

	"github.com/spf13/cobra"

	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/services/stats"
)

var reportTop *int

func init() {
	reportTop = reportCmd.Flags().Int("top", 20, "Limit the report to the top N speakers, 0 for all.")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [--top <n>]",
	Short: "Prints a per-speaker summary table.",
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		service, database := openService(config)
		defer database.Close()

		speakers, err := service.SpeakerStats(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to compute speaker stats", err)
		}
		stats.WriteReport(os.Stdout, speakers, *reportTop)
	},
}
