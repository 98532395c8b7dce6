package model

import "github.com/shopspring/decimal"

// MonthTotals holds the income and spending of one calendar month.
type MonthTotals struct {
	Income   decimal.Decimal
	Spending decimal.Decimal
}

// Totals is the result of one aggregation pass over the ledger.
type Totals struct {
	Window    PeriodWindow
	ByType    map[BudgetType]decimal.Decimal
	BySection map[string]decimal.Decimal
	Income    decimal.Decimal
	Spending  decimal.Decimal
	// Sections lists the section names in display order.
	Sections []string
	// Monthly is indexed by month-1 and always covers the window's whole year.
	Monthly [12]MonthTotals
}

// BucketTypes lists the spending buckets reported separately, in display order.
func BucketTypes() []BudgetType {
	return []BudgetType{TypeNeed, TypeWant, TypeSavings, TypeDebt}
}

// NewTotals returns zeroed totals with every bucket and section present.
func NewTotals(window PeriodWindow, sections []string) Totals {
	t := Totals{
		Window:    window,
		ByType:    make(map[BudgetType]decimal.Decimal, len(BucketTypes())),
		BySection: make(map[string]decimal.Decimal, len(sections)),
		Sections:  append([]string(nil), sections...),
		Income:    decimal.Zero,
		Spending:  decimal.Zero,
	}
	for _, bt := range BucketTypes() {
		t.ByType[bt] = decimal.Zero
	}
	for _, s := range sections {
		t.BySection[s] = decimal.Zero
	}
	for i := range t.Monthly {
		t.Monthly[i] = MonthTotals{Income: decimal.Zero, Spending: decimal.Zero}
	}
	return t
}
