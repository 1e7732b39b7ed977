package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"snemovna-backend/lib/scrapers/stenprot"
	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/lib/telemetry"
	"snemovna-backend/services/crawler"
)

var (
	overviewDir *string
	rawDir      *string
	outDir      *string
	fetch       *bool
	baseUrl     *string
	term        *string
)

func init() {
	overviewDir = rootCmd.Flags().String("overview", "overview", "Directory of downloaded overview pages.")
	rawDir = rootCmd.Flags().String("raw", "data/raw", "Root of downloaded transcript pages.")
	outDir = rootCmd.Flags().String("out", "speeches", "Root of the flat speech corpus to write.")
	fetch = rootCmd.Flags().Bool("fetch", false, "Fetch missing transcript pages from psp.cz on demand.")
	baseUrl = rootCmd.Flags().String("base-url", "", "Override the psp.cz base URL.")
	term = rootCmd.Flags().String("term", "", "Override the electoral-term path segment.")
}

var rootCmd = &cobra.Command{
	Use:   "extract",
	Short: "extract turns overview and transcript pages into the flat speech corpus.",
	Run: func(cmd *cobra.Command, args []string) {
		builder := crawler.Builder{
			OverviewDir: *overviewDir,
			RawDir:      *rawDir,
			OutDir:      *outDir,
		}
		if *fetch {
			client, err := stenprot.NewClient(cmd.Context(), stenprot.ClientOptions{
				BaseUrl: *baseUrl,
				Term:    *term,
			})
			if err != nil {
				serviceutil.Fatal("failed to initialize transcript client", err)
			}
			builder.Client = client
		}

		written, err := builder.Build(cmd.Context())
		if err != nil {
			serviceutil.Fatal("corpus build failed", err)
		}
		slog.Info("corpus build finished", "records", written)
	},
}

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "extract")
	telemetry.InitSlog(true)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
