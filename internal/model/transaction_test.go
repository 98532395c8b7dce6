package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseDirection(t *testing.T) {
	assert.Equal(t, DirectionIn, ParseDirection(" IN "))
	assert.Equal(t, DirectionOut, ParseDirection("out"))
	assert.Equal(t, DirectionAny, ParseDirection(""))
	assert.Equal(t, DirectionAny, ParseDirection("Any"))
	assert.Equal(t, Direction("sideways"), ParseDirection("Sideways"))
}

func TestEntry_Direction(t *testing.T) {
	pos := Entry{Amount: decimal.NewFromInt(10)}
	neg := Entry{Amount: decimal.NewFromInt(-10)}

	assert.Equal(t, DirectionOut, pos.Direction(SideDebit))
	assert.Equal(t, DirectionIn, neg.Direction(SideDebit))
	assert.Equal(t, DirectionIn, pos.Direction(SideCredit))
	assert.Equal(t, DirectionOut, neg.Direction(SideCredit))
}

func TestEntry_Activity(t *testing.T) {
	assert.True(t, Entry{}.IsBlank())
	assert.False(t, Entry{}.HasActivity())

	described := Entry{Description: "COFFEE"}
	assert.False(t, described.IsBlank())
	assert.False(t, described.HasActivity())

	full := Entry{Description: "COFFEE", Amount: decimal.RequireFromString("4.50")}
	assert.True(t, full.HasActivity())
}

func TestLedgerRow_Entry(t *testing.T) {
	row := LedgerRow{}
	row.Entry(SideCredit).Category = "Salary"
	row.Entry(SideDebit).Category = "Rent"

	assert.Equal(t, "Salary", row.Credit.Category)
	assert.Equal(t, "Rent", row.Debit.Category)
	assert.False(t, row.IsBlank())
	assert.True(t, LedgerRow{}.IsBlank())
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("test", -5*3600)
	got := DateOnly(time.Date(2024, 3, 9, 23, 15, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), got)
	assert.True(t, DateOnly(time.Time{}).IsZero())
}

func TestPeriodWindow_Contains(t *testing.T) {
	w := PeriodWindow{
		Start: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Time{}))
	assert.Equal(t, 2024, w.Year())
}

func TestRuleKey(t *testing.T) {
	r := Rule{Keyword: " Coffee Shop ", Direction: DirectionOut}
	assert.Equal(t, "COFFEE SHOP|OUT", r.Key())
	assert.Equal(t, "PAYROLL|ANY", RuleKey("payroll", ""))

	kw, dir, ok := SplitRuleKey("COFFEE SHOP|OUT")
	assert.True(t, ok)
	assert.Equal(t, "COFFEE SHOP", kw)
	assert.Equal(t, DirectionOut, dir)

	kw, dir, ok = SplitRuleKey("AMZN|MKTP|OUT")
	assert.True(t, ok)
	assert.Equal(t, "AMZN|MKTP", kw)
	assert.Equal(t, DirectionOut, dir)

	for _, key := range []string{"IMPORT_PREFS", "|OUT", "COFFEE|"} {
		_, _, ok = SplitRuleKey(key)
		assert.False(t, ok, key)
	}
}

func TestNewTotals(t *testing.T) {
	totals := NewTotals(PeriodWindow{}, []string{"Home", "Daily Living"})

	assert.Len(t, totals.ByType, len(BucketTypes()))
	assert.True(t, totals.ByType[TypeDebt].IsZero())
	assert.Equal(t, []string{"Home", "Daily Living"}, totals.Sections)
	assert.True(t, totals.BySection["Home"].IsZero())
	assert.True(t, totals.Monthly[11].Spending.IsZero())
}
