package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/services/crawler"
)

var syncMinSession *int

func init() {
	syncMinSession = syncCmd.Flags().Int("min", 0, "Skip archives below this session number.")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync-archives [--min <session>]",
	Short: "Downloads and unpacks the per-session zip archives instead of crawling page by page.",
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		client := createClient(cmd.Context(), config)

		minSession := *syncMinSession
		if minSession <= 0 {
			minSession = config.Sessions.First
		}

		synced, err := crawler.SyncArchives(cmd.Context(), client, config.OutputDir, minSession)
		if err != nil {
			serviceutil.Fatal("archive sync failed", err)
		}
		slog.Info("archive sync finished", "sessions", len(synced))
	},
}
