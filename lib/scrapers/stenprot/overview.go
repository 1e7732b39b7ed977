package stenprot

import (
	"fmt"
	"regexp"
	"strings"

	"snemovna-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// OverviewEntry points from a session overview page into a transcript:
// the speech of Speaker starts at Anchor inside File.
type OverviewEntry struct {
	File    string
	Anchor  string
	Speaker string
}

var sessionDateRegex = regexp.MustCompile(`(\d{1,2}\..*?\d{4})`)

// ParseOverview reads one session overview page and returns the
// session date (as printed in the page title, "15. ledna 2025") and
// the speech anchor map. A later entry for the same (file, anchor)
// pair replaces the earlier one.
func ParseOverview(htmlContent string) (string, []OverviewEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", nil, err
	}

	date := "Unknown"
	title := doc.Find("title").Text()
	if m := sessionDateRegex.FindStringSubmatch(title); m != nil {
		date = m[1]
	}

	var entries []OverviewEntry
	index := map[string]int{}
	for _, anchor := range htmlutil.GetAnchors(doc.Find("a")) {
		if !strings.HasPrefix(anchor.Href, "s") || !strings.Contains(anchor.Href, ".htm#") {
			continue
		}
		file, anchorId, _ := strings.Cut(anchor.Href, ".htm#")
		entry := OverviewEntry{
			File:    file + ".htm",
			Anchor:  anchorId,
			Speaker: anchor.Name,
		}

		key := entry.File + "#" + entry.Anchor
		if at, seen := index[key]; seen {
			entries[at] = entry
			continue
		}
		index[key] = len(entries)
		entries = append(entries, entry)
	}

	return date, entries, nil
}

// ExtractSpeechAt cuts one speech out of a transcript page: the
// paragraph holding the anchor plus following paragraphs up to the
// next anchored one. Returns "" when the anchor does not exist, a
// known gap in the scraped archive.
func ExtractSpeechAt(htmlContent, anchor string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	target := doc.Find(fmt.Sprintf(`[id=%q]`, anchor))
	if target.Length() == 0 {
		return "", nil
	}
	paragraph := target.Closest("p")
	if paragraph.Length() == 0 {
		return "", nil
	}

	var parts []string
	current := paragraph
	for current.Length() > 0 {
		anchored := current.Find("a[id]")
		if anchored.Length() > 0 && anchored.Nodes[0] != target.Nodes[0] {
			break
		}
		parts = append(parts, htmlutil.CleanText(current.Nodes[0]))

		next := current.Next()
		if next.Length() == 0 || !next.Is("p") {
			break
		}
		if next.Find("a[id]").Length() > 0 {
			break
		}
		current = next
	}

	return strings.Join(parts, "\n"), nil
}
