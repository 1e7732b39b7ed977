package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/lib/telemetry"
	"snemovna-backend/services/corpus"
)

var (
	dir       *string
	out       *string
	pattern   *string
	filenames *bool
)

func init() {
	dir = rootCmd.Flags().String("dir", ".", "The directory of speech files to concatenate.")
	out = rootCmd.Flags().String("out", "combined.txt", "The file to write, \"-\" for stdout.")
	pattern = rootCmd.Flags().String("pattern", "*.txt", "A glob pattern selecting the files.")
	filenames = rootCmd.Flags().Bool("filenames", true, "Write a filename header above each file.")
}

var rootCmd = &cobra.Command{
	Use:   "concat [--dir <path>] [--out <path>]",
	Short: "concat merges speech files into a single document, metadata stripped.",
	Run: func(cmd *cobra.Command, args []string) {
		output := os.Stdout
		if *out != "-" {
			var err error
			output, err = os.Create(*out)
			if err != nil {
				serviceutil.Fatal("failed to create output file", err)
			}
			defer output.Close()
		}

		merged, err := corpus.Concatenate(*dir, output, corpus.ConcatOptions{
			Pattern:          *pattern,
			IncludeFilenames: *filenames,
		})
		if err != nil {
			serviceutil.Fatal("concatenation failed", err)
		}
		slog.Info("concatenation finished", "files", merged)
	},
}

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "concat")
	telemetry.InitSlog(false)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
