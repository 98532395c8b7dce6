package classify

import (
	"testing"

	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestGuess(t *testing.T) {
	catalog := []model.CategoryDefinition{
		{Name: "Transportation", Type: model.TypeNeed},
		{Name: "Coffee Shops", Type: model.TypeWant},
		{Name: "Coffee", Type: model.TypeWant},
		{Name: "Pets"},
		{Name: "Uber", Type: model.TypeNeed},
	}

	tests := []struct {
		name string
		desc string
		want Suggestion
	}{
		{
			name: "full name plus word",
			desc: "Transportation - Uber Trip Downtown",
			// Uber ties at four but Transportation comes first.
			want: Suggestion{Category: "Transportation", Type: model.TypeNeed, Confidence: 4},
		},
		{
			name: "full name substring only",
			desc: "Uber Trip Downtown",
			want: Suggestion{Category: "Uber", Type: model.TypeNeed, Confidence: 4},
		},
		{
			name: "full match beats earlier word match",
			desc: "JAVA COFFEE HOUSE",
			// Coffee Shops scores 1 via the word, Coffee scores 3 + 1.
			want: Suggestion{Category: "Coffee", Type: model.TypeWant, Confidence: 4},
		},
		{
			name: "blank type becomes unknown",
			desc: "pets plus",
			want: Suggestion{Category: "Pets", Type: model.TypeUnknown, Confidence: 4},
		},
		{
			name: "no match",
			desc: "ACME CORP",
			want: Suggestion{Category: "Unknown", Type: model.TypeUnknown, Confidence: 0},
		},
		{
			name: "empty description",
			desc: "",
			want: Suggestion{Category: "Unknown", Type: model.TypeUnknown, Confidence: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Guess(tt.desc, catalog))
		})
	}
}

func TestGuess_TieKeepsInputOrder(t *testing.T) {
	catalog := []model.CategoryDefinition{
		{Name: "Gym", Type: model.TypeWant},
		{Name: "Gas", Type: model.TypeNeed},
	}
	got := Guess("gym and gas", catalog)
	assert.Equal(t, "Gym", got.Category)
	assert.Equal(t, 3, got.Confidence)
}

func TestGuessAll(t *testing.T) {
	catalog := []model.CategoryDefinition{{Name: "Rent", Type: model.TypeNeed}}
	got := GuessAll([]string{"RENT JULY", "unknown thing"}, catalog)
	assert.Len(t, got, 2)
	assert.Equal(t, "Rent", got[0].Category)
	assert.Equal(t, 0, got[1].Confidence)
}
