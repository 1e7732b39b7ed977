package corpus

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRecordsRoundTrip(t *testing.T) {
	want := []SpeechRecord{
		{
			FileID:  "s126001.htm",
			Anchor:  "r1",
			Date:    "15. ledna 2025",
			Speaker: "Poslanec Andrej Babiš",
			Body:    "Vážená paní předsedající, dámy a pánové.\nDěkuji za slovo.",
		},
		{
			FileID:  "s126001.htm",
			Anchor:  "r2",
			Date:    "15. ledna 2025",
			Speaker: "Předseda vlády Petr Fiala",
			Body:    "Dobrý den.",
		},
		{
			FileID:  "s126002.htm",
			Anchor:  "r5",
			Date:    "16. ledna 2025",
			Speaker: "Poslankyně Markéta Pekarová Adamová",
			Body:    "První odstavec.\n\nDruhý odstavec po prázdném řádku.",
		},
	}

	var content strings.Builder
	for _, r := range want {
		content.WriteString(r.String())
	}

	got := slices.Collect(Records(content.String()))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestRecordsIdempotent(t *testing.T) {
	content := SpeechRecord{
		FileID:  "s127003.htm",
		Anchor:  "r9",
		Date:    "3. února 2025",
		Speaker: "Ministr Zbyněk Stanjura",
		Body:    "Text projevu.",
	}.String()

	first := slices.Collect(Records(content))
	second := slices.Collect(Records(content))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatal(diff)
	}
}

func TestRecordsNoMarkers(t *testing.T) {
	require.Empty(t, slices.Collect(Records("")))
	require.Empty(t, slices.Collect(Records("no field markers\nanywhere in here\n")))
}

func TestRecordsMalformedDropped(t *testing.T) {
	// Speaker line missing before the next File: marker
	content := "File: s126001.htm\n" +
		"Anchor: r1\n" +
		"Date: 15. ledna 2025\n" +
		"orphaned body text\n" +
		"File: s126001.htm\n" +
		"Anchor: r2\n" +
		"Date: 15. ledna 2025\n" +
		"Speaker: Poslanec Andrej Babiš\n" +
		"řádný projev\n"

	got := slices.Collect(Records(content))
	require.Len(t, got, 1)
	require.Equal(t, "r2", got[0].Anchor)
	require.Equal(t, "řádný projev", got[0].Body)

	// same behavior when the policy warns
	warned := slices.Collect(Parser{Malformed: WarnAndDrop}.Records(content))
	if diff := cmp.Diff(got, warned); diff != "" {
		t.Fatal(diff)
	}
}

func TestRecordsDuplicateFieldLastWins(t *testing.T) {
	content := "File: s126001.htm\n" +
		"Anchor: r1\n" +
		"Anchor: r2\n" +
		"Date: 15. ledna 2025\n" +
		"Speaker: Poslanec Andrej Babiš\n" +
		"text\n"

	got := slices.Collect(Records(content))
	require.Len(t, got, 1)
	require.Equal(t, "r2", got[0].Anchor)
}

func TestRecordsBodyTrimming(t *testing.T) {
	content := "File: s126001.htm\n" +
		"Anchor: r1\n" +
		"Date: 15. ledna 2025\n" +
		"Speaker: Poslanec Andrej Babiš\n" +
		"\n" +
		"Speech:\n" +
		"\n" +
		"první řádek\n" +
		"\n" +
		"třetí řádek\n" +
		"\n" +
		"\n"

	got := slices.Collect(Records(content))
	require.Len(t, got, 1)
	require.Equal(t, "první řádek\n\ntřetí řádek", got[0].Body)
}

func TestRecordsLazyStop(t *testing.T) {
	var content strings.Builder
	for i := 0; i < 10; i++ {
		content.WriteString(SpeechRecord{
			FileID:  "s126001.htm",
			Anchor:  "r1",
			Date:    "d",
			Speaker: "s",
			Body:    "b",
		}.String())
	}

	count := 0
	for range Records(content.String()) {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
}
