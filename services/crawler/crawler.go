// Package crawler drives the stenoprotocol scraper over whole
// sessions: it downloads transcript pages, extracts the speeches on
// each page and persists both, with a resumable state file.
package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"snemovna-backend/lib/scrapers/stenprot"
	"snemovna-backend/services/corpus"
)

var tracer = otel.Tracer("services/crawler")

type Options struct {
	OutputDir string
	Sessions  corpus.SessionRange
	// concurrently crawled sessions, 3 when zero
	Concurrency int
	// path of the resume state file, "<OutputDir>/crawl_state.json"
	// when empty
	StateFile string
}

func (o Options) stateFile() string {
	if o.StateFile != "" {
		return o.StateFile
	}
	return filepath.Join(o.OutputDir, "crawl_state.json")
}

func sessionDir(session int) string {
	return fmt.Sprintf("%dschuz", session)
}

// Crawl downloads every transcript page of every session in range,
// extracts the speeches on each page and writes both under the
// output directory. Pages already marked done in the state file are
// skipped, and the state is persisted after every fetched page.
// Returns the number of pages fetched.
func Crawl(ctx context.Context, client *stenprot.Client, opts Options) (int, error) {
	ctx, span := tracer.Start(ctx, "Crawl")
	defer span.End()

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	state, err := LoadState(opts.stateFile())
	if err != nil {
		return 0, fmt.Errorf("load crawl state: %w", err)
	}
	store := &stateStore{state: state, path: opts.stateFile()}

	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error
	fetched := 0

	sem := make(chan struct{}, concurrency)
	for session := opts.Sessions.First; session <= opts.Sessions.Last; session++ {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			pages, err := crawlSession(ctx, client, opts.OutputDir, session, store)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("session %d: %w", session, err)
				}
				return
			}
			fetched += pages
		}()
	}
	wg.Wait()

	span.SetAttributes(attribute.Int("pages", fetched))
	return fetched, firstErr
}

// crawlSession walks parts 1, 2, ... until the first missing page and
// returns how many it actually fetched. Parts already in the state
// are reread from the raw store instead of refetched. A session whose
// first part is missing yields zero parts and no error, the session
// simply has no transcript yet.
func crawlSession(ctx context.Context, client *stenprot.Client, outputDir string, session int, store *stateStore) (int, error) {
	ctx, span := tracer.Start(ctx, "crawlSession")
	defer span.End()
	span.SetAttributes(attribute.Int("session", session))

	rawDir := filepath.Join(outputDir, "raw", sessionDir(session))
	if err := os.MkdirAll(rawDir, 0755); err != nil {
		return 0, err
	}

	var speeches []stenprot.Speech
	fetched := 0
	parts := 0
	for part := 1; ; part++ {
		if err := ctx.Err(); err != nil {
			return fetched, err
		}

		name := stenprot.TranscriptFilename(session, part)
		path := filepath.Join(rawDir, name)

		var content string
		if store.isDone(name) {
			raw, err := os.ReadFile(path)
			if err != nil {
				slog.Warn("crawled page missing from raw store", "session", session, "part", part, "err", err)
				parts++
				continue
			}
			content, err = stenprot.EnsureUTF8(raw)
			if err != nil {
				return fetched, fmt.Errorf("decode %s: %w", path, err)
			}
		} else {
			var err error
			content, err = client.FetchTranscript(ctx, session, part)
			if errors.Is(err, stenprot.ErrNotFound) {
				break
			}
			if err != nil {
				return fetched, err
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return fetched, err
			}
			store.markDone(name)
			fetched++
		}

		extracted, err := stenprot.ExtractSpeeches(content)
		if err != nil {
			slog.Warn("failed to extract speeches", "session", session, "part", part, "err", err)
		} else {
			speeches = append(speeches, extracted...)
		}
		parts++
	}

	slog.Info("crawled session", "session", session, "parts", parts, "fetched", fetched, "speeches", len(speeches))
	if parts == 0 {
		return fetched, nil
	}
	if err := writeSessionSpeeches(outputDir, session, speeches); err != nil {
		return fetched, err
	}
	return fetched, nil
}

func writeSessionSpeeches(outputDir string, session int, speeches []stenprot.Speech) error {
	dir := filepath.Join(outputDir, "speeches")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	content, err := json.MarshalIndent(speeches, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("session_%d.json", session))
	return os.WriteFile(path, content, 0644)
}

// SyncArchives downloads and unpacks the per-session zip archives
// instead of crawling page by page, which is much cheaper for
// sessions already closed. Returns the sessions synced.
func SyncArchives(ctx context.Context, client *stenprot.Client, outputDir string, minSession int) ([]int, error) {
	ctx, span := tracer.Start(ctx, "SyncArchives")
	defer span.End()

	links, err := client.FetchArchiveIndex(ctx, minSession)
	if err != nil {
		return nil, fmt.Errorf("fetch archive index: %w", err)
	}

	zipDir := filepath.Join(outputDir, "zips")
	var synced []int
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return synced, err
		}
		zipPath, err := client.DownloadArchive(ctx, link, zipDir)
		if err != nil {
			return synced, fmt.Errorf("download %s: %w", link.Href, err)
		}
		destDir := filepath.Join(outputDir, "raw", sessionDir(link.Session))
		if err := stenprot.ExtractArchive(zipPath, destDir); err != nil {
			return synced, fmt.Errorf("unpack %s: %w", link.Href, err)
		}
		slog.Info("synced session archive", "session", link.Session)
		synced = append(synced, link.Session)
	}
	return synced, nil
}
