package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"snemovna-backend/lib/scrapers/stenprot"
	"snemovna-backend/services/corpus"
)

// Builder turns downloaded overview pages and raw transcript pages
// into the flat speech corpus the extractor reads.
type Builder struct {
	// optional, missing transcript pages are fetched when set
	Client *stenprot.Client
	// directory of overview pages, named "<session>-<day>.htm"
	OverviewDir string
	// root of raw transcript pages, "<RawDir>/<session>schuz/s<session><part>.htm"
	RawDir string
	// corpus output root, one record file per speech under
	// "<OutDir>/<session>/"
	OutDir string
}

var overviewNameRegex = regexp.MustCompile(`^(\d+)-\d+\.htm$`)

// Build writes one speech record file per overview entry and returns
// how many it wrote. Entries whose transcript page cannot be found,
// or whose anchor yields no text, are logged and skipped.
func (b Builder) Build(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "Build")
	defer span.End()

	overviews, err := filepath.Glob(filepath.Join(b.OverviewDir, "*.htm"))
	if err != nil {
		return 0, err
	}
	sort.Strings(overviews)

	written := 0
	transcripts := map[string]string{}
	for _, path := range overviews {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		m := overviewNameRegex.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			continue
		}
		session, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return written, err
		}
		// overview pages are saved as served, windows-1250
		content, err := stenprot.EnsureUTF8(raw)
		if err != nil {
			return written, fmt.Errorf("decode overview %s: %w", path, err)
		}
		date, entries, err := stenprot.ParseOverview(content)
		if err != nil {
			slog.Warn("failed to parse overview", "path", path, "err", err)
			continue
		}

		for _, entry := range entries {
			n, err := b.buildRecord(ctx, transcripts, session, date, entry)
			if err != nil {
				return written, err
			}
			written += n
		}
	}

	span.SetAttributes(attribute.Int("records", written))
	return written, nil
}

func (b Builder) buildRecord(
	ctx context.Context,
	transcripts map[string]string,
	session int,
	date string,
	entry stenprot.OverviewEntry,
) (int, error) {
	content, err := b.transcript(ctx, transcripts, session, entry.File)
	if err != nil {
		slog.Warn(
			"skipping speech, transcript unavailable",
			"session", session,
			"file", entry.File,
			"err", err,
		)
		return 0, nil
	}

	body, err := stenprot.ExtractSpeechAt(content, entry.Anchor)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(body) == "" {
		slog.Debug("empty speech body", "file", entry.File, "anchor", entry.Anchor)
		return 0, nil
	}

	record := corpus.SpeechRecord{
		FileID:  entry.File,
		Anchor:  entry.Anchor,
		Date:    date,
		Speaker: entry.Speaker,
		Body:    body,
	}

	// the flat corpus uses plain numeric session directories
	dir := filepath.Join(b.OutDir, strconv.Itoa(session))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	base := strings.TrimSuffix(entry.File, filepath.Ext(entry.File))
	name := fmt.Sprintf("%s_%s.txt", base, entry.Anchor)
	err = os.WriteFile(filepath.Join(dir, name), []byte(record.String()), 0644)
	if err != nil {
		return 0, err
	}
	return 1, nil
}

// transcript returns the page content for one transcript filename,
// from cache, from the raw store, or fetched on demand when a client
// is configured.
func (b Builder) transcript(
	ctx context.Context,
	cache map[string]string,
	session int,
	file string,
) (string, error) {
	if content, ok := cache[file]; ok {
		return content, nil
	}

	path := filepath.Join(b.RawDir, sessionDir(session), file)
	raw, err := os.ReadFile(path)
	if err == nil {
		// archive-synced pages in the raw store are still windows-1250,
		// crawled ones are already UTF-8
		content, derr := stenprot.EnsureUTF8(raw)
		if derr != nil {
			return "", fmt.Errorf("decode transcript %s: %w", path, derr)
		}
		cache[file] = content
		return content, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}
	if b.Client == nil {
		return "", err
	}

	part, perr := transcriptPart(session, file)
	if perr != nil {
		return "", perr
	}
	content, ferr := b.Client.FetchTranscript(ctx, session, part)
	if ferr != nil {
		return "", ferr
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	cache[file] = content
	return content, nil
}

func transcriptPart(session int, file string) (int, error) {
	name := strings.TrimSuffix(file, ".htm")
	prefix := fmt.Sprintf("s%d", session)
	if !strings.HasPrefix(name, prefix) {
		return 0, fmt.Errorf("transcript %q does not belong to session %d", file, session)
	}
	part, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
	if err != nil {
		return 0, fmt.Errorf("transcript %q has no part number: %w", file, err)
	}
	return part, nil
}
