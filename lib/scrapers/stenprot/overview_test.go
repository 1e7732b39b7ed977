package stenprot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const overviewPage = `<html>
<head><title>Stenozáznamy ze dne 15. ledna 2025</title></head>
<body>
<a href="s126001.htm#r1">Poslanec Andrej Babiš</a>
<a href="s126001.htm#r2">Předseda PSP Radek Vondráček</a>
<a href="s126002.htm#r7">Poslankyně Markéta Pekarová Adamová</a>
<a href="index.htm">zpět</a>
</body></html>`

func TestParseOverview(t *testing.T) {
	date, entries, err := ParseOverview(overviewPage)
	require.NoError(t, err)
	require.Equal(t, "15. ledna 2025", date)
	require.Equal(t, []OverviewEntry{
		{File: "s126001.htm", Anchor: "r1", Speaker: "Poslanec Andrej Babiš"},
		{File: "s126001.htm", Anchor: "r2", Speaker: "Předseda PSP Radek Vondráček"},
		{File: "s126002.htm", Anchor: "r7", Speaker: "Poslankyně Markéta Pekarová Adamová"},
	}, entries)
}

func TestParseOverviewLaterEntryWins(t *testing.T) {
	page := `<html><head><title>126. schůze</title></head><body>
<a href="s126001.htm#r1">Poslanec A</a>
<a href="s126001.htm#r1">Poslanec B</a>
</body></html>`

	date, entries, err := ParseOverview(page)
	require.NoError(t, err)
	require.Equal(t, "Unknown", date)
	require.Equal(t, []OverviewEntry{
		{File: "s126001.htm", Anchor: "r1", Speaker: "Poslanec B"},
	}, entries)
}

func TestExtractSpeechAt(t *testing.T) {
	page := `<html><body>
<p><a id="r1"></a><b>Poslanec Andrej Babiš</b>: První odstavec projevu.</p>
<p>Druhý odstavec projevu.</p>
<p><a id="r2"></a><b>Předseda PSP Radek Vondráček</b>: Cizí projev.</p>
</body></html>`

	speech, err := ExtractSpeechAt(page, "r1")
	require.NoError(t, err)
	require.Contains(t, speech, "První odstavec projevu.")
	require.Contains(t, speech, "Druhý odstavec projevu.")
	require.NotContains(t, speech, "Cizí projev")
}

func TestExtractSpeechAtMissingAnchor(t *testing.T) {
	speech, err := ExtractSpeechAt(`<html><body><p>text</p></body></html>`, "r9")
	require.NoError(t, err)
	require.Empty(t, speech)
}
