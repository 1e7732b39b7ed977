package stenprot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const transcriptPage = `<html><head><title>Stenoprotokol</title></head><body>
<div id="main-content">
<p><b><a id="r1" href="/sqw/detail.sqw?id=1">Poslanec Andrej Babiš</a></b>: Vážené kolegyně, vážení kolegové.</p>
<p>Dovolte mi pokračovat druhým odstavcem.</p>
<p><b><a id="r2" href="/sqw/detail.sqw?id=2">Předseda PSP Radek Vondráček</a></b>: Děkuji panu poslanci.</p>
</div>
</body></html>`

func TestExtractSpeeches(t *testing.T) {
	speeches, err := ExtractSpeeches(transcriptPage)
	require.NoError(t, err)
	require.NotEmpty(t, speeches)

	byAuthor := map[string][]string{}
	for _, s := range speeches {
		byAuthor[s.Author] = append(byAuthor[s.Author], s.Text)
	}

	require.Contains(t, byAuthor, "Poslanec Andrej Babiš")
	require.Contains(t, byAuthor, "Předseda PSP Radek Vondráček")

	var babis string
	for _, text := range byAuthor["Poslanec Andrej Babiš"] {
		babis += text + " "
	}
	require.Contains(t, babis, "Vážené kolegyně")
	require.Contains(t, babis, "druhým odstavcem")
}

func TestExtractSpeechesContinuationMarker(t *testing.T) {
	page := `<html><body><div id="main-content">
(pokračuje Andrej Babiš)
<p>Navazuji na svůj projev z minulé strany.</p>
<p>A ještě jedna věta.</p>
<div class="document-nav"><p>další</p></div>
</div></body></html>`

	speeches, err := ExtractSpeeches(page)
	require.NoError(t, err)
	require.Len(t, speeches, 1)
	require.Equal(t, "Andrej Babiš", speeches[0].Author)
	require.Contains(t, speeches[0].Text, "Navazuji na svůj projev")
	require.Contains(t, speeches[0].Text, "ještě jedna věta")
}

func TestExtractSpeechesEmptyPage(t *testing.T) {
	speeches, err := ExtractSpeeches(`<html><body><p>žádný projev</p></body></html>`)
	require.NoError(t, err)
	require.Empty(t, speeches)
}

func TestExtractSpeechesSpeakerLabelParagraph(t *testing.T) {
	page := `<html><body><div id="main-content">
<p>Ministryně Marie Nováková : Odpovídám na interpelaci.</p>
</div></body></html>`

	speeches, err := ExtractSpeeches(page)
	require.NoError(t, err)
	require.Len(t, speeches, 1)
	require.Equal(t, "Ministryně Marie Nováková", speeches[0].Author)
	require.Equal(t, "Odpovídám na interpelaci.", speeches[0].Text)
}
