package aggregate

import (
	"testing"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSectionMap(t *testing.T) {
	sm, err := DefaultSectionMap()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Residence", "Transportation", "Daily Living", "Entertainment", "Banking",
		"Health", "Vacation", "Debt", "Savings", "Income",
	}, sm.Names())
	assert.Equal(t, "Daily Living", sm.Fallback())
}

func TestSectionMap_Resolve(t *testing.T) {
	sm, err := DefaultSectionMap()
	require.NoError(t, err)

	tests := []struct {
		name     string
		category string
		typ      model.BudgetType
		want     string
	}{
		{name: "keyword", category: "Rent", typ: model.TypeNeed, want: "Residence"},
		{name: "case insensitive substring", category: "monthly uber pass", typ: model.TypeNeed, want: "Transportation"},
		{name: "declaration order", category: "Travel Insurance Fees", typ: model.TypeWant, want: "Banking"},
		{name: "income type short circuits", category: "Rent", typ: model.TypeIncome, want: "Income"},
		{name: "debt type short circuits", category: "Groceries", typ: model.TypeDebt, want: "Debt"},
		{name: "savings type short circuits", category: "Hotel", typ: model.TypeSavings, want: "Savings"},
		{name: "debt keyword with spending type", category: "Car Loan", typ: model.TypeNeed, want: "Debt"},
		{name: "unmatched falls back", category: "Mystery", typ: model.TypeWant, want: "Daily Living"},
		{name: "empty category falls back", category: "", typ: model.TypeUnknown, want: "Daily Living"},
		{name: "income section not keyword reachable", category: "Income Tax", typ: model.TypeNeed, want: "Daily Living"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sm.Resolve(tt.category, tt.typ))
		})
	}
}

func TestParseSectionMap_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "sections: [unterminated"},
		{name: "no sections", yaml: "fallback: X\n"},
		{name: "empty name", yaml: "fallback: A\nsections:\n  - name: A\n  - name: ' '\n"},
		{name: "duplicate name", yaml: "fallback: A\nsections:\n  - name: A\n  - name: a\n"},
		{name: "unknown fallback", yaml: "fallback: Z\nsections:\n  - name: A\n"},
		{name: "type claimed twice", yaml: "fallback: A\nsections:\n  - name: A\n    type: Debt\n  - name: B\n    type: debt\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSectionMap([]byte(tt.yaml))
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestSectionMap_SetFallback(t *testing.T) {
	sm, err := DefaultSectionMap()
	require.NoError(t, err)

	require.NoError(t, sm.SetFallback("banking"))
	assert.Equal(t, "Banking", sm.Fallback())
	assert.Equal(t, "Banking", sm.Resolve("Mystery", model.TypeWant))

	assert.Error(t, sm.SetFallback("Nowhere"))
	assert.Equal(t, "Banking", sm.Fallback())
}
