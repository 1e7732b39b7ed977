package stats

import (
	"sort"

	"github.com/antzucaro/matchr"

	"snemovna-backend/lib/textutil"
)

type AliasSuggestion struct {
	A          string
	B          string
	Similarity float64
}

// DefaultAliasThreshold is tuned against transcript speaker fields,
// where most true aliases differ only in diacritics or a typo.
const DefaultAliasThreshold = 0.93

// SuggestAliases flags pairs of speaker names that likely refer to
// the same person, scored with Jaro-Winkler over the normalized
// forms. Pairs whose normalized forms are identical are skipped since
// the stats layer already groups those together.
func SuggestAliases(speakers []string, threshold float64) []AliasSuggestion {
	normalized := make([]string, len(speakers))
	for i, s := range speakers {
		normalized[i] = textutil.NormalizeName(s)
	}

	var suggestions []AliasSuggestion
	for i := 0; i < len(speakers); i++ {
		for j := i + 1; j < len(speakers); j++ {
			if normalized[i] == normalized[j] {
				continue
			}
			similarity := matchr.JaroWinkler(normalized[i], normalized[j], false)
			if similarity < threshold {
				continue
			}
			suggestions = append(suggestions, AliasSuggestion{
				A:          speakers[i],
				B:          speakers[j],
				Similarity: similarity,
			})
		}
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Similarity > suggestions[j].Similarity
	})
	return suggestions
}
