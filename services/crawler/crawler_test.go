package crawler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"snemovna-backend/lib/scrapers/stenprot"
	"snemovna-backend/lib/telemetry"
	"snemovna-backend/services/corpus"
)

const transcriptPart1 = `<html><body><div id="main-content">
<p><b><a id="r1" href="s126001.htm#r1">Poslanec Andrej Babiš</a></b></p>
<p>Děkuji za slovo.</p>
<p>Vážení kolegové.</p>
</div></body></html>`

const transcriptPart2 = `<html><body><div id="main-content">
<p><b><a id="r2" href="s126002.htm#r2">Předseda vlády Petr Fiala</a></b></p>
<p>Dobrý den.</p>
</div></body></html>`

// newTestClient serves session 126 with two transcript parts and
// counts how many transcript pages get requested.
func newTestClient(t *testing.T) (*stenprot.Client, *atomic.Int64) {
	t.Helper()

	// the live archive serves windows-1250, which FetchTranscript
	// always decodes, so the fixtures must be encoded the same way
	encoder := charmap.Windows1250.NewEncoder()
	encodedPart1, err := encoder.Bytes([]byte(transcriptPart1))
	require.NoError(t, err)
	encodedPart2, err := encoder.Bytes([]byte(transcriptPart2))
	require.NoError(t, err)

	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/eknih/2021ps/stenprot/126schuz/s126001.htm", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		w.Write(encodedPart1)
	})
	mux.HandleFunc("/eknih/2021ps/stenprot/126schuz/s126002.htm", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		w.Write(encodedPart2)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := stenprot.NewClient(context.Background(), stenprot.ClientOptions{
		BaseUrl:    server.URL,
		MaxRetries: 1,
	})
	require.NoError(t, err)
	return client, &hits
}

func TestCrawl(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/crawler")
	defer cleanup()

	client, _ := newTestClient(t)
	out := t.TempDir()
	opts := Options{
		OutputDir: out,
		Sessions:  corpus.SessionRange{First: 126, Last: 127},
	}

	fetched, err := Crawl(context.Background(), client, opts)
	require.NoError(t, err)
	require.Equal(t, 2, fetched)

	raw, err := os.ReadFile(filepath.Join(out, "raw", "126schuz", "s126001.htm"))
	require.NoError(t, err)
	require.Equal(t, transcriptPart1, string(raw))

	content, err := os.ReadFile(filepath.Join(out, "speeches", "session_126.json"))
	require.NoError(t, err)
	var speeches []stenprot.Speech
	require.NoError(t, json.Unmarshal(content, &speeches))
	require.Len(t, speeches, 2)
	require.Equal(t, "Poslanec Andrej Babiš", speeches[0].Author)
	require.Equal(t, "Děkuji za slovo. Vážení kolegové.", speeches[0].Text)

	// session 127 has no first part and therefore no speeches file
	_, err = os.Stat(filepath.Join(out, "speeches", "session_127.json"))
	require.True(t, os.IsNotExist(err))

	state, err := LoadState(opts.stateFile())
	require.NoError(t, err)
	require.True(t, state.Done["s126001.htm"])
	require.True(t, state.Done["s126002.htm"])
}

func TestCrawlResumesFromState(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/crawler")
	defer cleanup()

	client, hits := newTestClient(t)
	out := t.TempDir()
	opts := Options{
		OutputDir: out,
		Sessions:  corpus.SessionRange{First: 126, Last: 126},
	}

	fetched, err := Crawl(context.Background(), client, opts)
	require.NoError(t, err)
	require.Equal(t, 2, fetched)
	require.Equal(t, int64(2), hits.Load())

	fetched, err = Crawl(context.Background(), client, opts)
	require.NoError(t, err)
	require.Equal(t, 0, fetched)
	require.Equal(t, int64(2), hits.Load())
}

func TestCrawlResumesMidSession(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/crawler")
	defer cleanup()

	client, hits := newTestClient(t)
	out := t.TempDir()
	opts := Options{
		OutputDir: out,
		Sessions:  corpus.SessionRange{First: 126, Last: 126},
	}

	// part 1 was fetched by an interrupted run, only part 2 is left
	rawDir := filepath.Join(out, "raw", "126schuz")
	require.NoError(t, os.MkdirAll(rawDir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(rawDir, "s126001.htm"), []byte(transcriptPart1), 0644))
	state := State{Done: map[string]bool{"s126001.htm": true}}
	require.NoError(t, state.Save(opts.stateFile()))

	fetched, err := Crawl(context.Background(), client, opts)
	require.NoError(t, err)
	require.Equal(t, 1, fetched)
	require.Equal(t, int64(1), hits.Load())

	// speeches from the resumed part still make the session file
	content, err := os.ReadFile(filepath.Join(out, "speeches", "session_126.json"))
	require.NoError(t, err)
	var speeches []stenprot.Speech
	require.NoError(t, json.Unmarshal(content, &speeches))
	require.Len(t, speeches, 2)
	require.Equal(t, "Poslanec Andrej Babiš", speeches[0].Author)
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	state, err := LoadState(path)
	require.NoError(t, err)
	require.Empty(t, state.Done)

	state.Done["s126001.htm"] = true
	require.NoError(t, state.Save(path))

	loaded, err := LoadState(path)
	require.NoError(t, err)
	require.Equal(t, state.Done, loaded.Done)
}
