// Package stats aggregates per-speaker statistics over an extracted
// speech corpus and persists the raw measurements in sqlite.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"snemovna-backend/lib/textutil"
	"snemovna-backend/services/corpus"
	"snemovna-backend/services/stats/db"
)

var tracer = otel.Tracer("services/stats")

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

// CleanSpeaker reduces a raw speaker field to a grouping key:
// anything after a "::" separator is cut off, a leading parliamentary
// title is stripped and whitespace is collapsed. Diacritics are kept
// so the key stays readable in reports.
func CleanSpeaker(raw string) string {
	name := raw
	if before, _, found := strings.Cut(name, "::"); found {
		name = before
	}
	name = textutil.StripTitle(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), " ")
}

// Ingest replaces the stored measurements with one row per speech
// record found under the walker's corpus. Returns the number of rows
// written.
func (s Service) Ingest(ctx context.Context, walker corpus.Walker, parser corpus.Parser) (int, error) {
	ctx, span := tracer.Start(ctx, "Ingest")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin ingest tx: %w", err)
	}
	defer tx.Rollback()
	qry := s.qry.WithTx(tx)

	if err := qry.DeleteSpeeches(ctx); err != nil {
		return 0, fmt.Errorf("clear speeches: %w", err)
	}

	count := 0
	for path := range walker.Files() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("skipping unreadable corpus file", "path", path, "err", err)
			continue
		}
		session := filepath.Base(filepath.Dir(path))
		for record := range parser.Records(string(content)) {
			speaker := CleanSpeaker(record.Speaker)
			if speaker == "" {
				continue
			}
			body := strings.TrimSpace(record.Body)
			err := qry.InsertSpeech(ctx, db.InsertSpeechParams{
				Session:   session,
				File:      record.FileID,
				Anchor:    record.Anchor,
				Date:      record.Date,
				Speaker:   speaker,
				WordCount: int64(len(strings.Fields(body))),
				CharCount: int64(len([]rune(body))),
			})
			if err != nil {
				return 0, fmt.Errorf("insert speech: %w", err)
			}
			count++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit ingest tx: %w", err)
	}
	span.SetAttributes(attribute.Int("speeches", count))
	return count, nil
}

type SpeakerStats struct {
	Speaker      string
	SpeechCount  int
	TotalWords   int
	TotalChars   int
	MeanWords    float64
	MedianWords  float64
	MeanChars    float64
	MedianChars  float64
	Sessions     []string
	Contribution float64
}

// SpeakerStats computes per-speaker aggregates over the stored rows,
// ordered by speech count descending. Contribution is the speaker's
// mean share of speeches across the sessions they appeared in, as a
// percentage.
func (s Service) SpeakerStats(ctx context.Context) ([]SpeakerStats, error) {
	ctx, span := tracer.Start(ctx, "SpeakerStats")
	defer span.End()

	speeches, err := s.qry.ListSpeeches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speeches: %w", err)
	}
	sessionCounts, err := s.qry.CountSpeechesBySession(ctx)
	if err != nil {
		return nil, fmt.Errorf("count session speeches: %w", err)
	}
	sessionTotals := map[string]int64{}
	for _, sc := range sessionCounts {
		sessionTotals[sc.Session] = sc.Count
	}

	type accumulator struct {
		words      []int
		chars      []int
		bySession  map[string]int
		totalWords int
		totalChars int
	}
	byName := map[string]*accumulator{}
	for _, sp := range speeches {
		acc := byName[sp.Speaker]
		if acc == nil {
			acc = &accumulator{bySession: map[string]int{}}
			byName[sp.Speaker] = acc
		}
		acc.words = append(acc.words, int(sp.WordCount))
		acc.chars = append(acc.chars, int(sp.CharCount))
		acc.bySession[sp.Session]++
		acc.totalWords += int(sp.WordCount)
		acc.totalChars += int(sp.CharCount)
	}

	result := make([]SpeakerStats, 0, len(byName))
	for name, acc := range byName {
		sessions := make([]string, 0, len(acc.bySession))
		var share float64
		for session, n := range acc.bySession {
			sessions = append(sessions, session)
			if total := sessionTotals[session]; total > 0 {
				share += float64(n) / float64(total)
			}
		}
		sortSessions(sessions)
		count := len(acc.words)
		result = append(result, SpeakerStats{
			Speaker:      name,
			SpeechCount:  count,
			TotalWords:   acc.totalWords,
			TotalChars:   acc.totalChars,
			MeanWords:    float64(acc.totalWords) / float64(count),
			MedianWords:  median(acc.words),
			MeanChars:    float64(acc.totalChars) / float64(count),
			MedianChars:  median(acc.chars),
			Sessions:     sessions,
			Contribution: share / float64(len(sessions)) * 100,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SpeechCount != result[j].SpeechCount {
			return result[i].SpeechCount > result[j].SpeechCount
		}
		return result[i].Speaker < result[j].Speaker
	})
	span.SetAttributes(attribute.Int("speakers", len(result)))
	return result, nil
}

// sortSessions orders session labels numerically, "99" before "100".
// Labels that are not numbers sort lexicographically after the rest.
func sortSessions(sessions []string) {
	sort.Slice(sessions, func(i, j int) bool {
		a, aerr := strconv.Atoi(sessions[i])
		b, berr := strconv.Atoi(sessions[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		if aerr == nil || berr == nil {
			return aerr == nil
		}
		return sessions[i] < sessions[j]
	})
}

func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}
