package classify

import (
	"strings"

	"github.com/Veraticus/budget-sheets/internal/model"
)

// Suggestion is a best-effort category guess. It is never persisted on its own.
type Suggestion struct {
	Category   string
	Type       model.BudgetType
	Confidence int
}

const (
	fullNameScore = 3
	wordScore     = 1
	minWordLength = 4
)

// Guess scores every catalog category against description. A category earns
// three points when its full name appears in the description and one point
// for each name word of four or more letters that appears. The first category
// with the strictly highest score wins.
func Guess(description string, catalog []model.CategoryDefinition) Suggestion {
	d := strings.ToLower(description)

	best := Suggestion{Category: string(model.TypeUnknown), Type: model.TypeUnknown}
	for _, c := range catalog {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			continue
		}

		score := 0
		if strings.Contains(d, name) {
			score += fullNameScore
		}
		for _, w := range strings.Split(name, " ") {
			if len(w) >= minWordLength && strings.Contains(d, w) {
				score += wordScore
			}
		}

		if score > best.Confidence {
			typ := c.Type
			if typ == "" {
				typ = model.TypeUnknown
			}
			best = Suggestion{Category: c.Name, Type: typ, Confidence: score}
		}
	}
	return best
}

// GuessAll runs Guess for each description, preserving order.
func GuessAll(descriptions []string, catalog []model.CategoryDefinition) []Suggestion {
	out := make([]Suggestion, len(descriptions))
	for i, d := range descriptions {
		out[i] = Guess(d, catalog)
	}
	return out
}
