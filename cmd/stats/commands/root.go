package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snemovna-backend/lib/configutil"
	configlibsql "snemovna-backend/lib/configutil/libsql"
	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/services/corpus"
	"snemovna-backend/services/stats"
	"snemovna-backend/services/stats/db"
)

type Config struct {
	Database configlibsql.Struct `json:"database"`
	// root directory of the flat speech corpus
	CorpusDir string              `json:"corpus_dir"`
	Sessions  corpus.SessionRange `json:"sessions"`
}

var rootCmd = &cobra.Command{
	Use:   "stats",
	Short: "stats aggregates per-speaker statistics over the speech corpus.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readConfig() Config {
	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.CorpusDir == "" {
		config.CorpusDir = "speeches"
	}
	if config.Sessions == (corpus.SessionRange{}) {
		config.Sessions = corpus.DefaultSessionRange
	}
	return config
}

func openService(config Config) (stats.Service, *sql.DB) {
	database, err := config.Database.OpenDB(db.Schema)
	if err != nil {
		serviceutil.Fatal("failed to open stats DB", err)
	}
	return stats.NewService(database), database
}
