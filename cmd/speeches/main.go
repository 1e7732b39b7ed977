package main

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"snemovna-backend/lib/serviceutil"
	"snemovna-backend/lib/telemetry"
	"snemovna-backend/services/corpus"
)

var (
	corpusDir    *string
	firstSession *int
	lastSession  *int
	warnDropped  *bool
	verbose      *bool
)

func init() {
	corpusDir = rootCmd.Flags().String("dir", "speeches", "The root directory of the speech corpus.")
	firstSession = rootCmd.Flags().Int("first", corpus.DefaultSessionRange.First, "The first session to search.")
	lastSession = rootCmd.Flags().Int("last", corpus.DefaultSessionRange.Last, "The last session to search.")
	warnDropped = rootCmd.Flags().Bool("warn-dropped", false, "Log malformed records instead of dropping them silently.")
	verbose = rootCmd.Flags().Bool("verbose", false, "Enable debug logging.")
}

var rootCmd = &cobra.Command{
	Use:   "speeches <politician name>",
	Short: "speeches prints every speech of a politician found in the corpus to stdout.",
	Long: `speeches searches the flat speech corpus for a politician by name and
prints the matched speech bodies to stdout, separated by blank lines.
The name match ignores diacritics and a leading parliamentary title,
and every given word must occur in the speaker field.`,
	Run: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)

		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			fmt.Fprint(os.Stderr, cmd.UsageString())
			os.Exit(2)
		}

		parser := corpus.Parser{}
		if *warnDropped {
			parser.Malformed = corpus.WarnAndDrop
		}
		extractor := corpus.Extractor{
			Walker: corpus.Walker{
				Root: *corpusDir,
				Range: corpus.SessionRange{
					First: *firstSession,
					Last:  *lastSession,
				},
			},
			Parser: parser,
		}

		bodies, err := extractor.Extract(cmd.Context(), query)
		if err != nil {
			serviceutil.Fatal("failed to search the corpus", err)
		}

		count := printBodies(os.Stdout, bodies)
		slog.Info("search finished", "query", query, "speeches", count)
	},
}

// printBodies writes the speech bodies to w separated by exactly one
// blank line, with no trailing blank line, and returns how many it
// wrote.
func printBodies(w io.Writer, bodies iter.Seq[string]) int {
	count := 0
	for body := range bodies {
		if count > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, body)
		count++
	}
	return count
}

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "speeches")

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
