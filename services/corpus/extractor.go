package corpus

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"os"
	"strings"

	"snemovna-backend/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("services/corpus")

var ErrEmptyQuery = errors.New("query must not be empty")

// Extractor sweeps the walker's speech files and yields the bodies of
// speeches given by the queried politician.
type Extractor struct {
	Walker Walker
	Parser Parser
}

// Extract returns a lazy sequence of speech bodies in session order.
// An unreadable file is logged and skipped, the sweep never aborts
// over a single bad file and output produced so far stays valid. The
// query is validated up front, an empty one would otherwise match
// every record.
func (e Extractor) Extract(ctx context.Context, query string) (iter.Seq[string], error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	return func(yield func(string) bool) {
		ctx, span := tracer.Start(ctx, "Extract")
		defer span.End()
		span.SetAttributes(attribute.String("query", query))

		for path := range e.Walker.Files() {
			if ctx.Err() != nil {
				return
			}

			content, err := os.ReadFile(path)
			if err != nil {
				slog.Warn("skipping unreadable speech file", "path", path, "err", err)
				continue
			}

			for record := range e.Parser.Records(string(content)) {
				if !textutil.Matches(record.Speaker, query) {
					continue
				}
				if !yield(strings.TrimSpace(record.Body)) {
					return
				}
			}
		}
	}, nil
}
