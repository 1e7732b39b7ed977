package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/services/corpus"
)

func init() {
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Reads the speech corpus and replaces the stored measurements.",
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		service, database := openService(config)
		defer database.Close()

		walker := corpus.Walker{Root: config.CorpusDir, Range: config.Sessions}

		t1 := time.Now()
		count, err := service.Ingest(cmd.Context(), walker, corpus.Parser{})
		if err != nil {
			serviceutil.Fatal("ingest failed", err)
		}
		t2 := time.Now()

		slog.Info("ingest finished", "speeches", count, "seconds", t2.Sub(t1).Seconds())
	},
}
