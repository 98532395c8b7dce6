package model

import "strings"

// BudgetType is the budgeting classification of a transaction.
type BudgetType string

// Budget type constants.
const (
	TypeIncome  BudgetType = "Income"
	TypeNeed    BudgetType = "Need"
	TypeWant    BudgetType = "Want"
	TypeSavings BudgetType = "Savings"
	TypeDebt    BudgetType = "Debt"
	TypeUnknown BudgetType = "Unknown"
	TypeNone    BudgetType = "None"
)

// AllBudgetTypes returns the types offered in type dropdowns, in display order.
func AllBudgetTypes() []BudgetType {
	return []BudgetType{TypeNeed, TypeWant, TypeSavings, TypeDebt, TypeIncome, TypeUnknown, TypeNone}
}

// ParseBudgetType maps free text onto a BudgetType, case-insensitively.
// Empty text yields the empty type so callers can tell an unset cell apart.
func ParseBudgetType(s string) BudgetType {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, t := range AllBudgetTypes() {
		if strings.EqualFold(s, string(t)) {
			return t
		}
	}
	return TypeUnknown
}

// IsSpending reports whether amounts of this type count as spending.
func (t BudgetType) IsSpending() bool {
	return t != TypeIncome
}

// CategoryDefinition is one row of a settings category table.
type CategoryDefinition struct {
	Name  string
	Type  BudgetType
	Table string
}

// NormalizeName folds a category or keyword for comparisons: non-breaking
// spaces become spaces, surrounding whitespace is trimmed and the result upper-cased.
func NormalizeName(s string) string {
	return strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " ")))
}

// CategoryKey folds a category name for matching. On top of NormalizeName it
// collapses inner runs of whitespace, so "Dining  Out" equals "dining out".
func CategoryKey(s string) string {
	return strings.Join(strings.Fields(NormalizeName(s)), " ")
}

// IsUnknownCategory reports whether a category cell means "not yet classified".
func IsUnknownCategory(category string) bool {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "", "unknown", "none":
		return true
	}
	return false
}
