package sheets

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWorkbook_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook(DefaultLayout())

	first, last, err := wb.AppendLedger(ctx, []model.LedgerRow{
		{Debit: model.Entry{Date: date(2024, 4, 1), Description: "RENT", Amount: decimal.NewFromInt(1500)}},
		{Credit: model.Entry{Date: date(2024, 4, 15), Description: "PAYROLL", Amount: decimal.NewFromInt(4000)}},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, first)
	assert.Equal(t, 6, last)

	first, last, err = wb.AppendLedger(ctx, []model.LedgerRow{
		{Debit: model.Entry{Date: date(2024, 4, 2), Description: "COFFEE", Amount: decimal.RequireFromString("4.5")}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, first)
	assert.Equal(t, 7, last)

	ledger, err := wb.ReadLedger(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 3)
	assert.Equal(t, "RENT", ledger[0].Debit.Description)
	assert.Equal(t, date(2024, 4, 1), ledger[0].Debit.Date)
	assert.Equal(t, "PAYROLL", ledger[1].Credit.Description)
	assert.True(t, ledger[1].Debit.IsBlank())
	assert.Equal(t, 2, ledger[2].Index)
}

func TestMemoryWorkbook_WriteLedgerOnlyTouchesClassification(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook(DefaultLayout())
	require.NoError(t, wb.SeedLedger([]model.LedgerRow{
		{Debit: model.Entry{Date: date(2024, 4, 1), Description: "RENT", Amount: decimal.NewFromInt(1500)}},
	}))

	ledger, err := wb.ReadLedger(ctx)
	require.NoError(t, err)
	ledger[0].Debit.Category = "Rent"
	ledger[0].Debit.Type = model.TypeNeed
	ledger[0].Debit.Description = "CHANGED"
	require.NoError(t, wb.WriteLedger(ctx, ledger))

	got, err := wb.ReadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, "RENT", got[0].Debit.Description)
	assert.Equal(t, "Rent", got[0].Debit.Category)
	assert.Equal(t, model.TypeNeed, got[0].Debit.Type)
}

func TestMemoryWorkbook_Categories(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook(DefaultLayout())
	require.NoError(t, wb.SeedCategories("Income", model.CategoryDefinition{Name: "Salary", Type: model.TypeIncome}))
	require.NoError(t, wb.SeedCategories("Residence",
		model.CategoryDefinition{Name: "Rent", Type: model.TypeNeed},
		model.CategoryDefinition{Name: "Utilities", Type: model.TypeNeed},
	))
	assert.Error(t, wb.SeedCategories("Nope", model.CategoryDefinition{Name: "X"}))

	defs, err := wb.ReadCategoryDefinitions(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, "Salary", defs[0].Name)
	assert.Equal(t, "Residence", defs[2].Table)

	count, err := wb.RenameCategory(ctx, "rent", "Housing", "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	defs, err = wb.ReadCategoryDefinitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Housing", defs[1].Name)
	assert.Equal(t, model.TypeNeed, defs[1].Type)
}

func TestMemoryWorkbook_PublishCategoryList(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook(DefaultLayout())

	require.NoError(t, wb.PublishCategoryList(ctx, []string{"Salary", "Rent", "Utilities"}))
	require.NoError(t, wb.PublishCategoryList(ctx, []string{"Salary", "Rent"}))

	values, err := wb.Values(wb.Layout().CategoryListRange())
	require.NoError(t, err)
	assert.Equal(t, Grid{{"Salary"}, {"Rent"}}, values)

	named, ok := wb.NamedRange("CategoryList_Combined")
	require.True(t, ok)
	assert.Equal(t, "Settings!AD8:AD9", named)
}

func TestMemoryWorkbook_PeriodAndTotals(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook(DefaultLayout())
	wb.now = func() time.Time { return date(2026, 1, 10) }

	label, year, err := wb.ReadPeriodSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", label)
	assert.Equal(t, 2026, year)

	require.NoError(t, wb.SetPeriod("Q2", 2024))
	label, year, err = wb.ReadPeriodSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Q2", label)
	assert.Equal(t, 2024, year)

	totals := model.NewTotals(model.PeriodWindow{Start: date(2024, 4, 1), End: date(2024, 6, 30)}, nil)
	totals.Income = decimal.NewFromInt(8000)
	require.NoError(t, wb.WriteTotals(ctx, totals))

	values, err := wb.Values("Overview!C6")
	require.NoError(t, err)
	assert.Equal(t, Grid{{8000.0}}, values)
}

func TestMemoryWorkbook_MissingSheet(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook(DefaultLayout())
	wb.RemoveSheet("Settings")
	wb.RemoveSheet("Transactions")

	_, err := wb.ReadCategoryDefinitions(ctx)
	assert.ErrorIs(t, err, common.ErrMissingSource)
	_, err = wb.ReadLedger(ctx)
	assert.ErrorIs(t, err, common.ErrMissingSource)

	names, err := wb.SheetNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Overview"}, names)
}
