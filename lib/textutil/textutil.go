package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Role and honorific prefixes that appear before names in stenoprotocol
// speaker labels. Longest first so "Předseda vlády" wins over "Předseda".
var TitlePrefixes = []string{
	"Místopředsedkyně PSP",
	"Místopředseda PSP",
	"Předsedkyně vlády",
	"Předseda vlády",
	"Předsedkyně PSP",
	"Předseda PSP",
	"Předsedající",
	"Předsedkyně",
	"Předseda",
	"Zpravodajka",
	"Zpravodaj",
	"Poslankyně",
	"Poslanec",
	"Ministryně",
	"Ministr",
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

var diacriticsFold = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// maps accented latin letters to their unaccented base, "š" -> "s"
func FoldDiacritics(s string) string {
	out, _, err := transform.String(diacriticsFold, s)
	if err != nil {
		return s
	}
	return out
}

// StripTitle removes at most one leading title prefix from a speaker
// label. The prefix must be a whole word (followed by whitespace or the
// end of the string), matched case-insensitively. Titles appearing
// mid-string are left intact.
func StripTitle(speaker string) string {
	speaker = strings.TrimSpace(speaker)
	for _, prefix := range TitlePrefixes {
		if len(speaker) < len(prefix) {
			continue
		}
		if !strings.EqualFold(speaker[:len(prefix)], prefix) {
			continue
		}
		rest := speaker[len(prefix):]
		if rest == "" {
			return ""
		}
		if rest[0] == ' ' || rest[0] == '\t' {
			return strings.TrimSpace(rest)
		}
	}
	return speaker
}

func NormalizeName(name string) string {
	name = FoldDiacritics(name)
	name = strings.ToLower(name)
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Matches reports whether a raw speaker label refers to the queried
// politician. The label is cut at a "::" separator if present (the
// scraped corpus sometimes carries trailing procedural text), the
// leading title is stripped and both sides are normalized. Every token
// of the query must then appear as a substring of the space-joined
// speaker name, in any order. An empty query never matches.
func Matches(speakerRaw, query string) bool {
	q := NormalizeName(query)
	if q == "" {
		return false
	}

	if idx := strings.Index(speakerRaw, "::"); idx >= 0 {
		speakerRaw = speakerRaw[:idx]
	}
	name := NormalizeName(StripTitle(speakerRaw))

	for _, token := range strings.Fields(q) {
		if !strings.Contains(name, token) {
			return false
		}
	}
	return true
}
