package sheets

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/shopspring/decimal"
	"google.golang.org/api/sheets/v4"
)

// Grid is a block of cell values as returned by the Sheets values API.
type Grid [][]any

// serialEpoch is day zero of spreadsheet date serial numbers.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const dateLayout = "2006-01-02"

var cellDateLayouts = []string{
	dateLayout,
	"1/2/2006",
	"2006/01/02",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
}

// DecodeLedger converts the data rows of the transactions grid. Row zero of
// values is the first row below the header block.
func DecodeLedger(values Grid, l Layout) model.Ledger {
	ledger := make(model.Ledger, 0, len(values))
	for i, row := range values {
		ledger = append(ledger, model.LedgerRow{
			Index: i,
			Debit: model.Entry{
				Date:        cellDate(row, l.Debit.Date),
				Description: cellString(row, l.Debit.Description),
				Amount:      cellDecimal(row, l.Debit.Amount),
				Credit:      cellDecimal(row, l.DebitCredit),
				Balance:     cellDecimal(row, l.DebitBalance),
				Category:    cellString(row, l.Debit.Category),
				Type:        decodeType(cellString(row, l.Debit.Type)),
			},
			Credit: model.Entry{
				Date:        cellDate(row, l.Credit.Date),
				Description: cellString(row, l.Credit.Description),
				Amount:      cellDecimal(row, l.Credit.Amount),
				Category:    cellString(row, l.Credit.Category),
				Type:        decodeType(cellString(row, l.Credit.Type)),
			},
		})
	}
	return ledger
}

// EncodeLedger renders full-width rows for appending new transactions.
func EncodeLedger(rows []model.LedgerRow, l Layout) Grid {
	out := make(Grid, len(rows))
	for i, r := range rows {
		row := make([]any, l.LedgerWidth)
		for c := range row {
			row[c] = ""
		}
		row[l.Debit.Date] = encodeDate(r.Debit.Date)
		row[l.Debit.Description] = r.Debit.Description
		row[l.Debit.Amount] = encodeDecimal(r.Debit.Amount)
		row[l.DebitCredit] = encodeDecimal(r.Debit.Credit)
		row[l.DebitBalance] = encodeDecimal(r.Debit.Balance)
		row[l.Debit.Category] = r.Debit.Category
		row[l.Debit.Type] = string(r.Debit.Type)

		row[l.Credit.Date] = encodeDate(r.Credit.Date)
		row[l.Credit.Description] = r.Credit.Description
		row[l.Credit.Amount] = encodeDecimal(r.Credit.Amount)
		row[l.Credit.Category] = r.Credit.Category
		row[l.Credit.Type] = string(r.Credit.Type)
		out[i] = row
	}
	return out
}

// EncodeClassifications renders the category and type columns of both sides
// so a write leaves every other ledger column untouched.
func EncodeClassifications(ledger model.Ledger, l Layout) []*sheets.ValueRange {
	if len(ledger) == 0 {
		return nil
	}
	debit := make(Grid, len(ledger))
	credit := make(Grid, len(ledger))
	for i, r := range ledger {
		debit[i] = []any{r.Debit.Category, string(r.Debit.Type)}
		credit[i] = []any{r.Credit.Category, string(r.Credit.Type)}
	}
	last := l.LedgerFirstRow + len(ledger) - 1
	return []*sheets.ValueRange{
		{Range: RowRange(l.LedgerSheet, l.LedgerFirstRow, l.Debit.Category, last, l.Debit.Type), Values: debit},
		{Range: RowRange(l.LedgerSheet, l.LedgerFirstRow, l.Credit.Category, last, l.Credit.Type), Values: credit},
	}
}

// DecodeCategoryTables walks each table column pair in declaration order.
// Row zero of values is the first settings data row; column zero is A.
// Blank names are returned so callers see the raw table.
func DecodeCategoryTables(values Grid, l Layout) []model.CategoryDefinition {
	var out []model.CategoryDefinition
	for _, t := range l.Tables {
		for _, row := range values {
			if cellString(row, t.Category) == "" && cellString(row, t.Type) == "" {
				continue
			}
			out = append(out, model.CategoryDefinition{
				Name:  cellString(row, t.Category),
				Type:  decodeType(cellString(row, t.Type)),
				Table: t.Name,
			})
		}
	}
	return out
}

// RenameInCategoryTables returns the cell updates that rename oldName in
// every table, comparing trimmed names case-insensitively.
func RenameInCategoryTables(values Grid, l Layout, oldName, newName string, newType model.BudgetType) ([]*sheets.ValueRange, int) {
	target := model.CategoryKey(oldName)
	var updates []*sheets.ValueRange
	count := 0
	for r, row := range values {
		sheetRow := l.SettingsFirstRow + r
		for _, t := range l.Tables {
			if model.CategoryKey(cellString(row, t.Category)) != target {
				continue
			}
			count++
			updates = append(updates, &sheets.ValueRange{
				Range:  CellRange(l.SettingsSheet, fmt.Sprintf("%s%d", ColumnName(t.Category), sheetRow)),
				Values: Grid{{newName}},
			})
			if newType != "" {
				updates = append(updates, &sheets.ValueRange{
					Range:  CellRange(l.SettingsSheet, fmt.Sprintf("%s%d", ColumnName(t.Type), sheetRow)),
					Values: Grid{{string(newType)}},
				})
			}
		}
	}
	return updates, count
}

// EncodeCategoryList renders names as a single column.
func EncodeCategoryList(names []string) Grid {
	out := make(Grid, len(names))
	for i, n := range names {
		out[i] = []any{n}
	}
	return out
}

// EncodeTotals renders the dashboard cells for one aggregation.
func EncodeTotals(t model.Totals, l Layout) []*sheets.ValueRange {
	buckets := make(Grid, 0, len(model.BucketTypes()))
	for _, bt := range model.BucketTypes() {
		buckets = append(buckets, []any{t.ByType[bt].InexactFloat64()})
	}

	trend := make(Grid, len(t.Monthly))
	for i, m := range t.Monthly {
		trend[i] = []any{m.Income.InexactFloat64(), m.Spending.InexactFloat64()}
	}

	sections := make(Grid, len(t.Sections))
	for i, name := range t.Sections {
		sections[i] = []any{name, t.BySection[name].InexactFloat64()}
	}

	ranges := []*sheets.ValueRange{
		{Range: CellRange(l.OverviewSheet, l.IncomeCell), Values: Grid{{t.Income.InexactFloat64()}}},
		{Range: CellRange(l.OverviewSheet, l.SpendingCell), Values: Grid{{t.Spending.InexactFloat64()}}},
		{
			Range:  RowRange(l.OverviewSheet, l.BucketFirstRow, l.BucketColumn, l.BucketFirstRow+len(buckets)-1, l.BucketColumn),
			Values: buckets,
		},
		{
			Range:  RowRange(l.OverviewSheet, l.TrendFirstRow, l.TrendColumn, l.TrendFirstRow+len(trend)-1, l.TrendColumn+1),
			Values: trend,
		},
	}
	if len(sections) > 0 {
		ranges = append(ranges, &sheets.ValueRange{
			Range:  RowRange(l.OverviewSheet, l.SectionFirstRow, l.SectionColumn, l.SectionFirstRow+len(sections)-1, l.SectionColumn+1),
			Values: sections,
		})
	}
	return ranges
}

// DecodePeriodSelection reads the year and period cells. A missing or
// unreadable year falls back to now's year.
func DecodePeriodSelection(yearCell, periodCell any, now time.Time) (string, int) {
	label := strings.TrimSpace(toString(periodCell))
	year := now.Year()
	switch v := yearCell.(type) {
	case float64:
		if v >= 1 {
			year = int(v)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 1 {
			year = n
		}
	}
	return label, year
}

func decodeType(s string) model.BudgetType {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, t := range model.AllBudgetTypes() {
		if strings.EqualFold(s, string(t)) {
			return t
		}
	}
	// Keep custom type text so writes do not rewrite it.
	return model.BudgetType(s)
}

func cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func cellString(row []any, idx int) string {
	return strings.TrimSpace(toString(cell(row, idx)))
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// cellDecimal reads numbers leniently. Currency symbols and grouping are
// stripped; anything unreadable is zero.
func cellDecimal(row []any, idx int) decimal.Decimal {
	switch x := cell(row, idx).(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case decimal.Decimal:
		return x
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, x)
		if d, err := decimal.NewFromString(cleaned); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// cellDate reads serial numbers and the common text layouts.
func cellDate(row []any, idx int) time.Time {
	switch x := cell(row, idx).(type) {
	case float64:
		if x <= 0 {
			return time.Time{}
		}
		return serialEpoch.AddDate(0, 0, int(math.Floor(x)))
	case time.Time:
		return model.DateOnly(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}
		}
		for _, layout := range cellDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return model.DateOnly(t)
			}
		}
	}
	return time.Time{}
}

func encodeDate(t time.Time) any {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func encodeDecimal(d decimal.Decimal) any {
	if d.IsZero() {
		return ""
	}
	return d.InexactFloat64()
}
