package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snemovna-backend/lib/configutil"
	"snemovna-backend/lib/restyutil"
	"snemovna-backend/lib/scrapers/stenprot"
	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/services/corpus"
)

type Config struct {
	BaseUrl string `json:"base_url"`
	// electoral-term path segment, "2021ps" when empty
	Term      string              `json:"term"`
	OutputDir string              `json:"output_dir"`
	Sessions  corpus.SessionRange `json:"sessions"`
	// concurrently crawled sessions
	Concurrency int `json:"concurrency"`
	// when set, full HTTP request/response dumps are written there
	InstrumentDir string `json:"instrument_dir"`
}

var rootCmd = &cobra.Command{
	Use:   "crawler",
	Short: "crawler downloads stenoprotocol transcripts from psp.cz.",
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
	if config.OutputDir == "" {
		config.OutputDir = "data"
	}
	if config.Sessions == (corpus.SessionRange{}) {
		config.Sessions = corpus.DefaultSessionRange
	}
	return config
}

func createClient(ctx context.Context, config Config) *stenprot.Client {
	client, err := stenprot.NewClient(ctx, stenprot.ClientOptions{
		BaseUrl: config.BaseUrl,
		Term:    config.Term,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize transcript client", err)
	}
	if config.InstrumentDir != "" {
		client.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(config.InstrumentDir))
	}
	return client
}
