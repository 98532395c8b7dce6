package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBudgetType(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want BudgetType
	}{
		{name: "exact", in: "Need", want: TypeNeed},
		{name: "lower case", in: "savings", want: TypeSavings},
		{name: "padded", in: "  Income ", want: TypeIncome},
		{name: "empty stays unset", in: "   ", want: ""},
		{name: "unrecognized", in: "Luxury", want: TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBudgetType(tt.in))
		})
	}
}

func TestBudgetType_IsSpending(t *testing.T) {
	assert.False(t, TypeIncome.IsSpending())
	for _, bt := range BucketTypes() {
		assert.True(t, bt.IsSpending(), bt)
	}
	assert.True(t, TypeUnknown.IsSpending())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "DINING OUT", NormalizeName(" dining out "))
	assert.Equal(t, "", NormalizeName(" "))
}

func TestCategoryKey(t *testing.T) {
	assert.Equal(t, "DINING OUT", CategoryKey(" Dining  Out "))
	assert.Equal(t, CategoryKey("dining out"), CategoryKey("Dining\u00a0\tOut"))
	assert.Equal(t, "", CategoryKey("\t"))
}

func TestIsUnknownCategory(t *testing.T) {
	for _, c := range []string{"", "  ", "Unknown", "NONE"} {
		assert.True(t, IsUnknownCategory(c), "%q", c)
	}
	assert.False(t, IsUnknownCategory("Groceries"))
}
