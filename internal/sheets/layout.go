package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SideColumns are the zero-based ledger columns of one transaction side.
type SideColumns struct {
	Date        int
	Description int
	Amount      int
	Category    int
	Type        int
}

// TableColumns locates one settings category table.
type TableColumns struct {
	Name     string
	Category int
	Type     int
}

// Layout pins every region of the workbook the engine touches.
// Rows are 1-based as in A1 notation; columns are zero-based.
type Layout struct {
	LedgerSheet   string
	SettingsSheet string
	OverviewSheet string

	// LedgerFirstRow is the first data row below the header block.
	LedgerFirstRow int
	LedgerWidth    int
	Debit          SideColumns
	DebitCredit    int
	DebitBalance   int
	Credit         SideColumns

	SettingsFirstRow   int
	Tables             []TableColumns
	CategoryListColumn int
	CategoryListName   string

	YearCell        string
	PeriodCell      string
	IncomeCell      string
	SpendingCell    string
	BucketFirstRow  int
	BucketColumn    int
	TrendFirstRow   int
	TrendColumn     int
	SectionFirstRow int
	SectionColumn   int
}

// DefaultLayout is the stock budget workbook.
func DefaultLayout() Layout {
	return Layout{
		LedgerSheet:   "Transactions",
		SettingsSheet: "Settings",
		OverviewSheet: "Overview",

		LedgerFirstRow: 5,
		LedgerWidth:    16,
		Debit:          SideColumns{Date: 0, Description: 1, Amount: 2, Category: 5, Type: 6},
		DebitCredit:    3,
		DebitBalance:   4,
		Credit:         SideColumns{Date: 9, Description: 10, Amount: 11, Category: 14, Type: 15},

		SettingsFirstRow: 8,
		Tables: []TableColumns{
			{Name: "Income", Category: 3, Type: 4},
			{Name: "Residence", Category: 5, Type: 6},
			{Name: "Transportation", Category: 7, Type: 8},
			{Name: "Daily Living", Category: 9, Type: 10},
			{Name: "Banking", Category: 11, Type: 12},
			{Name: "Health", Category: 13, Type: 14},
			{Name: "Vacation", Category: 15, Type: 16},
			{Name: "Debt", Category: 17, Type: 18},
			{Name: "Savings", Category: 19, Type: 20},
		},
		CategoryListColumn: 29,
		CategoryListName:   "CategoryList_Combined",

		YearCell:        "B1",
		PeriodCell:      "B2",
		IncomeCell:      "C6",
		SpendingCell:    "C7",
		BucketFirstRow:  12,
		BucketColumn:    2,
		TrendFirstRow:   25,
		TrendColumn:     2,
		SectionFirstRow: 60,
		SectionColumn:   1,
	}
}

// Validate rejects layouts the codecs cannot work with.
func (l Layout) Validate() error {
	switch {
	case strings.TrimSpace(l.LedgerSheet) == "":
		return errors.New("ledger sheet name is required")
	case strings.TrimSpace(l.SettingsSheet) == "":
		return errors.New("settings sheet name is required")
	case strings.TrimSpace(l.OverviewSheet) == "":
		return errors.New("overview sheet name is required")
	case l.LedgerFirstRow < 1 || l.SettingsFirstRow < 1:
		return errors.New("first data rows must be positive")
	case len(l.Tables) == 0:
		return errors.New("at least one category table is required")
	}
	for _, c := range []int{
		l.Debit.Date, l.Debit.Description, l.Debit.Amount, l.Debit.Category, l.Debit.Type,
		l.DebitCredit, l.DebitBalance,
		l.Credit.Date, l.Credit.Description, l.Credit.Amount, l.Credit.Category, l.Credit.Type,
	} {
		if c < 0 || c >= l.LedgerWidth {
			return fmt.Errorf("ledger column %d outside width %d", c, l.LedgerWidth)
		}
	}
	return nil
}

// LedgerRange is the open-ended data range of the transactions grid.
func (l Layout) LedgerRange() string {
	return fmt.Sprintf("%s!A%d:%s", quoteSheet(l.LedgerSheet), l.LedgerFirstRow, ColumnName(l.LedgerWidth-1))
}

// SettingsRange covers every category table from the first data row.
func (l Layout) SettingsRange() string {
	last := 0
	for _, t := range l.Tables {
		last = max(last, t.Category, t.Type)
	}
	return fmt.Sprintf("%s!A%d:%s", quoteSheet(l.SettingsSheet), l.SettingsFirstRow, ColumnName(last))
}

// CategoryListRange is the open-ended helper column holding the combined list.
func (l Layout) CategoryListRange() string {
	col := ColumnName(l.CategoryListColumn)
	return fmt.Sprintf("%s!%s%d:%s", quoteSheet(l.SettingsSheet), col, l.SettingsFirstRow, col)
}

// PeriodRange covers the year and period selection cells.
func (l Layout) PeriodRange() []string {
	return []string{
		CellRange(l.OverviewSheet, l.YearCell),
		CellRange(l.OverviewSheet, l.PeriodCell),
	}
}

// ColumnName converts a zero-based column index to letters: 0 is A, 26 is AA.
func ColumnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

// ColumnIndex converts column letters to a zero-based index.
func ColumnIndex(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return 0, errors.New("empty column name")
	}
	idx := 0
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column name %q", name)
		}
		idx = idx*26 + int(r-'A'+1)
	}
	return idx - 1, nil
}

// CellRange qualifies a cell or range reference with its sheet.
func CellRange(sheet, ref string) string {
	return quoteSheet(sheet) + "!" + ref
}

// RowRange builds a rectangular A1 range.
func RowRange(sheet string, firstRow, firstCol, lastRow, lastCol int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", quoteSheet(sheet), ColumnName(firstCol), firstRow, ColumnName(lastCol), lastRow)
}

// cellRef is a parsed A1 reference. Rows are 1-based, columns zero-based.
// LastRow is zero for open-ended ranges.
type cellRef struct {
	Sheet    string
	FirstRow int
	FirstCol int
	LastRow  int
	LastCol  int
}

// parseRange reads "Sheet!C6", "Sheet!B60:C68" and "Sheet!A5:P".
func parseRange(a1 string) (cellRef, error) {
	bang := strings.LastIndex(a1, "!")
	if bang < 0 {
		return cellRef{}, fmt.Errorf("range %q has no sheet", a1)
	}
	sheet, ref := a1[:bang], a1[bang+1:]
	if strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") && len(sheet) >= 2 {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}

	from, to, isRange := strings.Cut(ref, ":")
	fc, fr, err := splitCell(from)
	if err != nil || fr == 0 {
		return cellRef{}, fmt.Errorf("invalid range %q", a1)
	}
	out := cellRef{Sheet: sheet, FirstRow: fr, FirstCol: fc, LastRow: fr, LastCol: fc}
	if isRange {
		lc, lr, err := splitCell(to)
		if err != nil {
			return cellRef{}, fmt.Errorf("invalid range %q", a1)
		}
		out.LastCol, out.LastRow = lc, lr
	}
	return out, nil
}

func splitCell(s string) (col, row int, err error) {
	i := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	letters, digits := s, ""
	if i >= 0 {
		letters, digits = s[:i], s[i:]
	}
	col, err = ColumnIndex(letters)
	if err != nil {
		return 0, 0, err
	}
	if digits == "" {
		return col, 0, nil
	}
	row, err = strconv.Atoi(digits)
	return col, row, err
}

func quoteSheet(name string) string {
	if strings.ContainsAny(name, " '!") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}
