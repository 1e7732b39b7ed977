package corpus

import (
	"bufio"
	"iter"
	"log/slog"
	"strings"
)

// MalformedPolicy decides what happens to a record that reaches its
// flush point with a required field missing. Fragments like these are
// expected, scraping gaps leave half-written files behind.
type MalformedPolicy int

const (
	DropSilently MalformedPolicy = iota
	WarnAndDrop
)

type Parser struct {
	Malformed MalformedPolicy
}

// Records lazily parses the content of one speech file into its
// records. The sequence is finite and restartable, iterating it twice
// yields the same records.
//
// A "File:" line flushes the in-progress record and starts a new one.
// "Anchor:"/"Date:"/"Speaker:" lines populate fields, a repeated field
// before the next "File:" is logged and the later value wins. Every
// other line belongs to the body, except an optional bare "Speech:"
// separator directly before it. A record missing a required field at
// flush is dropped per the malformed policy. Content with no "File:"
// marker at all yields nothing.
func (p Parser) Records(content string) iter.Seq[SpeechRecord] {
	return func(yield func(SpeechRecord) bool) {
		scanner := bufio.NewScanner(strings.NewReader(content))
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

		var cur SpeechRecord
		var body []string
		var inRecord, hasAnchor, hasDate, hasSpeaker, bodyStarted bool

		flush := func() bool {
			if !inRecord {
				return true
			}
			if !hasAnchor || !hasDate || !hasSpeaker {
				if p.Malformed == WarnAndDrop {
					slog.Warn(
						"dropping malformed speech fragment",
						"file", cur.FileID,
						"anchor", hasAnchor,
						"date", hasDate,
						"speaker", hasSpeaker,
					)
				}
				return true
			}
			cur.Body = trimBlankRegion(body)
			return yield(cur)
		}

		setField := func(dst *string, value, name string, seen *bool) {
			if *seen {
				slog.Warn(
					"duplicate field in speech record, later value wins",
					"file", cur.FileID,
					"field", name,
				)
			}
			*dst = value
			*seen = true
		}

		for scanner.Scan() {
			line := scanner.Text()

			if value, ok := fieldValue(line, "File:"); ok {
				if !flush() {
					return
				}
				cur = SpeechRecord{FileID: value}
				body = body[:0]
				inRecord = true
				hasAnchor, hasDate, hasSpeaker, bodyStarted = false, false, false, false
				continue
			}
			if !inRecord {
				continue
			}

			if value, ok := fieldValue(line, "Anchor:"); ok {
				setField(&cur.Anchor, value, "Anchor", &hasAnchor)
				continue
			}
			if value, ok := fieldValue(line, "Date:"); ok {
				setField(&cur.Date, value, "Date", &hasDate)
				continue
			}
			if value, ok := fieldValue(line, "Speaker:"); ok {
				setField(&cur.Speaker, value, "Speaker", &hasSpeaker)
				continue
			}

			// the writer emits a bare "Speech:" separator between the
			// header and the body, possibly after blank lines
			if !bodyStarted && strings.TrimSpace(line) == "Speech:" {
				continue
			}
			if strings.TrimSpace(line) != "" {
				bodyStarted = true
			}
			body = append(body, line)
		}

		flush()
	}
}

// Records parses with the default (silent) malformed-fragment policy.
func Records(content string) iter.Seq[SpeechRecord] {
	return Parser{}.Records(content)
}

func fieldValue(line, marker string) (string, bool) {
	if !strings.HasPrefix(line, marker) {
		return "", false
	}
	return strings.TrimSpace(line[len(marker):]), true
}

// drops blank lines at both ends of the body, interior blank lines
// stay put
func trimBlankRegion(lines []string) string {
	start := 0
	end := len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
