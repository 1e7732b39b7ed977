package stats

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"snemovna-backend/lib/testutil"
	"snemovna-backend/services/corpus"
	"snemovna-backend/services/stats/db"
)

func writeCorpus(t *testing.T, root string, session int, name string, records ...corpus.SpeechRecord) {
	t.Helper()
	dir := filepath.Join(root, strconv.Itoa(session))
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := ""
	for _, r := range records {
		content += r.String() + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestIngestAndSpeakerStats(t *testing.T) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/stats",
		DbSchema: db.Schema,
	})
	defer cleanup()

	root := t.TempDir()
	writeCorpus(t, root, 126, "s126001.txt",
		corpus.SpeechRecord{
			FileID:  "s126001.htm",
			Anchor:  "r1",
			Date:    "14. ledna 2025",
			Speaker: "Poslanec Andrej Babiš",
			Body:    "Vážené paní poslankyně, vážení páni poslanci.",
		},
		corpus.SpeechRecord{
			FileID:  "s126001.htm",
			Anchor:  "r2",
			Date:    "14. ledna 2025",
			Speaker: "Předseda vlády Petr Fiala",
			Body:    "Pane předsedající, dámy a pánové, děkuji.",
		},
	)
	writeCorpus(t, root, 127, "s127001.txt",
		corpus.SpeechRecord{
			FileID:  "s127001.htm",
			Anchor:  "r1",
			Date:    "21. ledna 2025",
			Speaker: "Poslanec Andrej Babiš",
			Body:    "Děkuji za slovo.",
		},
	)

	service := NewService(result.DB)
	walker := corpus.Walker{Root: root, Range: corpus.SessionRange{First: 126, Last: 127}}

	count, err := service.Ingest(context.Background(), walker, corpus.Parser{})
	require.NoError(t, err)
	require.Equal(t, 3, count)

	stats, err := service.SpeakerStats(context.Background())
	require.NoError(t, err)

	expected := []SpeakerStats{
		{
			Speaker:      "Andrej Babiš",
			SpeechCount:  2,
			TotalWords:   9,
			TotalChars:   61,
			MeanWords:    4.5,
			MedianWords:  4.5,
			MeanChars:    30.5,
			MedianChars:  30.5,
			Sessions:     []string{"126", "127"},
			Contribution: 75,
		},
		{
			Speaker:      "Petr Fiala",
			SpeechCount:  1,
			TotalWords:   6,
			TotalChars:   41,
			MeanWords:    6,
			MedianWords:  6,
			MeanChars:    41,
			MedianChars:  41,
			Sessions:     []string{"126"},
			Contribution: 50,
		},
	}
	if diff := cmp.Diff(expected, stats); diff != "" {
		t.Fatal(diff)
	}
}

func TestSortSessions(t *testing.T) {
	sessions := []string{"100", "99", "126", "9"}
	sortSessions(sessions)
	require.Equal(t, []string{"9", "99", "100", "126"}, sessions)
}

func TestSpeakerStatsOrdersSessionsNumerically(t *testing.T) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/stats",
		DbSchema: db.Schema,
	})
	defer cleanup()

	root := t.TempDir()
	for _, session := range []int{99, 100} {
		writeCorpus(t, root, session, "s001.txt", corpus.SpeechRecord{
			FileID:  "s001.htm",
			Anchor:  "r1",
			Date:    "14. ledna 2025",
			Speaker: "Poslanec Andrej Babiš",
			Body:    "Děkuji.",
		})
	}

	service := NewService(result.DB)
	walker := corpus.Walker{Root: root, Range: corpus.SessionRange{First: 99, Last: 100}}

	count, err := service.Ingest(context.Background(), walker, corpus.Parser{})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	stats, err := service.SpeakerStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, []string{"99", "100"}, stats[0].Sessions)
}

func TestIngestReplacesPreviousRows(t *testing.T) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/stats",
		DbSchema: db.Schema,
	})
	defer cleanup()

	root := t.TempDir()
	writeCorpus(t, root, 126, "s126001.txt", corpus.SpeechRecord{
		FileID:  "s126001.htm",
		Anchor:  "r1",
		Date:    "14. ledna 2025",
		Speaker: "Poslanec Andrej Babiš",
		Body:    "Děkuji.",
	})

	service := NewService(result.DB)
	walker := corpus.Walker{Root: root, Range: corpus.SessionRange{First: 126, Last: 126}}

	for i := 0; i < 2; i++ {
		count, err := service.Ingest(context.Background(), walker, corpus.Parser{})
		require.NoError(t, err)
		require.Equal(t, 1, count)
	}

	stats, err := service.SpeakerStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, 1, stats[0].SpeechCount)
}

func TestCleanSpeaker(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"Poslanec Andrej Babiš", "Andrej Babiš"},
		{"Předseda vlády Petr Fiala", "Petr Fiala"},
		{"Poslanec Jan Novák:: faktická poznámka", "Jan Novák"},
		{"  Ministryně   Jana   Černochová  ", "Jana Černochová"},
		{"Markéta Pekarová Adamová", "Markéta Pekarová Adamová"},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, CleanSpeaker(c.input), "input: %q", c.input)
	}
}

func TestSuggestAliases(t *testing.T) {
	speakers := []string{
		"Andrej Babiš",
		"Andrej Babis",
		"Petr Fiala",
		"Petr Fialla",
		"Jan Novák",
	}
	suggestions := SuggestAliases(speakers, DefaultAliasThreshold)

	require.Len(t, suggestions, 1)
	require.Equal(t, "Petr Fiala", suggestions[0].A)
	require.Equal(t, "Petr Fialla", suggestions[0].B)
	require.GreaterOrEqual(t, suggestions[0].Similarity, DefaultAliasThreshold)
}

func TestWriteCSV(t *testing.T) {
	stats := []SpeakerStats{
		{
			Speaker:      "Andrej Babiš",
			SpeechCount:  2,
			TotalWords:   9,
			TotalChars:   62,
			MeanWords:    4.5,
			MedianWords:  4.5,
			MeanChars:    31,
			MedianChars:  31,
			Sessions:     []string{"126", "127"},
			Contribution: 75,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, stats))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "Speech Count")
	require.Contains(t, lines[1], "Andrej Babiš")
	require.Contains(t, lines[1], "126;127")
}
