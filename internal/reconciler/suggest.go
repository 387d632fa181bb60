package reconciler

import (
	"sort"

	"github.com/KirkDiggler/craft-sim/internal/catalogs"
	"github.com/KirkDiggler/craft-sim/internal/modtext"
	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// Suggestion is an official mod whose text is close to an unmatched one
type Suggestion struct {
	OfficialID string       `json:"official_id"`
	Text       modtext.Text `json:"text"`
	Distance   int          `json:"distance"`
}

type suggester struct {
	texts []modtext.Text
}

func newSuggester(texts []modtext.Text) *suggester {
	return &suggester{texts: texts}
}

// suggest returns up to maxSuggestions official mods within an edit distance
// that scales with the text length, closest first.
func (s *suggester) suggest(text modtext.Text, official catalogs.Catalog) []Suggestion {
	limit := distanceLimit(len(text))

	var out []Suggestion
	for _, candidate := range s.texts {
		if abs(len(candidate)-len(text)) > limit {
			continue
		}
		dist := levenshtein.ComputeDistance(string(text), string(candidate))
		if dist > limit {
			continue
		}
		for _, id := range official.IDsFor(candidate) {
			out = append(out, Suggestion{OfficialID: id, Text: candidate, Distance: dist})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].OfficialID < out[j].OfficialID
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 8:
		return 1
	case length <= 24:
		return 3
	default:
		return length / 6
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
