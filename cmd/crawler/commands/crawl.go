package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/services/crawler"
)

var (
	crawlFirst *int
	crawlLast  *int
)

func init() {
	crawlFirst = crawlCmd.Flags().Int("first", 0, "Override the first session from the config.")
	crawlLast = crawlCmd.Flags().Int("last", 0, "Override the last session from the config.")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--first <session>] [--last <session>]",
	Short: "Crawls every transcript page of the configured sessions.",
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		if *crawlFirst > 0 {
			config.Sessions.First = *crawlFirst
		}
		if *crawlLast > 0 {
			config.Sessions.Last = *crawlLast
		}

		client := createClient(cmd.Context(), config)

		t1 := time.Now()
		fetched, err := crawler.Crawl(cmd.Context(), client, crawler.Options{
			OutputDir:   config.OutputDir,
			Sessions:    config.Sessions,
			Concurrency: config.Concurrency,
		})
		if err != nil {
			serviceutil.Fatal("crawl failed", err)
		}
		t2 := time.Now()

		slog.Info("crawl finished", "pages", fetched, "seconds", t2.Sub(t1).Seconds())
	},
}
