package sheets

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/Veraticus/budget-sheets/internal/service"
	"google.golang.org/api/sheets/v4"
)

// MemoryWorkbook is an in-process workbook with the same layout and codecs
// as the API client. It backs tests and dry runs.
type MemoryWorkbook struct {
	sheets      map[string]Grid
	namedRanges map[string]string
	now         func() time.Time
	layout      Layout
	mu          sync.Mutex
}

var _ service.Workbook = (*MemoryWorkbook)(nil)

// NewMemoryWorkbook creates a workbook with empty ledger, settings and overview sheets.
func NewMemoryWorkbook(layout Layout) *MemoryWorkbook {
	return &MemoryWorkbook{
		layout: layout,
		sheets: map[string]Grid{
			layout.LedgerSheet:   {},
			layout.SettingsSheet: {},
			layout.OverviewSheet: {},
		},
		namedRanges: make(map[string]string),
		now:         time.Now,
	}
}

// Layout returns the workbook layout.
func (m *MemoryWorkbook) Layout() Layout {
	return m.layout
}

// RemoveSheet drops a sheet, simulating a damaged workbook.
func (m *MemoryWorkbook) RemoveSheet(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sheets, name)
}

// SetValues writes a block of values at an A1 range such as "Overview!B1".
func (m *MemoryWorkbook) SetValues(a1 string, values Grid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apply(&sheets.ValueRange{Range: a1, Values: values})
}

// Values reads an A1 range. Open-ended ranges stop at the last used row.
func (m *MemoryWorkbook) Values(a1 string) (Grid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read(a1)
}

// NamedRange returns the A1 range a name points at.
func (m *MemoryWorkbook) NamedRange(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.namedRanges[name]
	return r, ok
}

// SeedLedger appends rows using the ledger codec.
func (m *MemoryWorkbook) SeedLedger(rows []model.LedgerRow) error {
	_, _, err := m.AppendLedger(context.Background(), rows)
	return err
}

// SeedCategories fills the named table with (name, type) rows.
func (m *MemoryWorkbook) SeedCategories(table string, defs ...model.CategoryDefinition) error {
	for _, t := range m.layout.Tables {
		if t.Name != table {
			continue
		}
		rows := make(Grid, len(defs))
		for i, d := range defs {
			rows[i] = []any{d.Name, string(d.Type)}
		}
		if len(rows) == 0 {
			return nil
		}
		a1 := RowRange(m.layout.SettingsSheet, m.layout.SettingsFirstRow, t.Category,
			m.layout.SettingsFirstRow+len(rows)-1, t.Type)
		return m.SetValues(a1, rows)
	}
	return fmt.Errorf("unknown category table %q", table)
}

// SetPeriod fills the year and period selection cells.
func (m *MemoryWorkbook) SetPeriod(label string, year int) error {
	if err := m.SetValues(CellRange(m.layout.OverviewSheet, m.layout.YearCell), Grid{{float64(year)}}); err != nil {
		return err
	}
	return m.SetValues(CellRange(m.layout.OverviewSheet, m.layout.PeriodCell), Grid{{label}})
}

// SheetNames lists the sheets in name order.
func (m *MemoryWorkbook) SheetNames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.sheets))
	for n := range m.sheets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// ReadLedger implements service.LedgerStore.
func (m *MemoryWorkbook) ReadLedger(_ context.Context) (model.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.require(m.layout.LedgerSheet); err != nil {
		return nil, err
	}
	values, err := m.read(m.layout.LedgerRange())
	if err != nil {
		return nil, err
	}
	return DecodeLedger(values, m.layout), nil
}

// WriteLedger implements service.LedgerStore.
func (m *MemoryWorkbook) WriteLedger(_ context.Context, ledger model.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.require(m.layout.LedgerSheet); err != nil {
		return err
	}
	for _, vr := range EncodeClassifications(ledger, m.layout) {
		if err := m.apply(vr); err != nil {
			return err
		}
	}
	return nil
}

// AppendLedger implements service.LedgerStore.
func (m *MemoryWorkbook) AppendLedger(_ context.Context, rows []model.LedgerRow) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.require(m.layout.LedgerSheet); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	existing, err := m.read(m.layout.LedgerRange())
	if err != nil {
		return 0, 0, err
	}
	first := m.layout.LedgerFirstRow + len(existing)
	last := first + len(rows) - 1
	vr := &sheets.ValueRange{
		Range:  RowRange(m.layout.LedgerSheet, first, 0, last, m.layout.LedgerWidth-1),
		Values: EncodeLedger(rows, m.layout),
	}
	if err := m.apply(vr); err != nil {
		return 0, 0, err
	}
	return first, last, nil
}

// ReadCategoryDefinitions implements service.CatalogSource.
func (m *MemoryWorkbook) ReadCategoryDefinitions(_ context.Context) ([]model.CategoryDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.require(m.layout.SettingsSheet); err != nil {
		return nil, err
	}
	values, err := m.read(m.layout.SettingsRange())
	if err != nil {
		return nil, err
	}
	return DecodeCategoryTables(values, m.layout), nil
}

// PublishCategoryList implements service.CatalogPublisher.
func (m *MemoryWorkbook) PublishCategoryList(_ context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.require(m.layout.SettingsSheet); err != nil {
		return err
	}
	m.clearColumn(m.layout.SettingsSheet, m.layout.CategoryListColumn, m.layout.SettingsFirstRow)
	if len(names) == 0 {
		return nil
	}
	a1 := RowRange(m.layout.SettingsSheet, m.layout.SettingsFirstRow, m.layout.CategoryListColumn,
		m.layout.SettingsFirstRow+len(names)-1, m.layout.CategoryListColumn)
	if err := m.apply(&sheets.ValueRange{Range: a1, Values: EncodeCategoryList(names)}); err != nil {
		return err
	}
	m.namedRanges[m.layout.CategoryListName] = a1
	return nil
}

// RenameCategory implements service.SettingsEditor.
func (m *MemoryWorkbook) RenameCategory(_ context.Context, oldName, newName string, newType model.BudgetType) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.require(m.layout.SettingsSheet); err != nil {
		return 0, err
	}
	values, err := m.read(m.layout.SettingsRange())
	if err != nil {
		return 0, err
	}
	updates, count := RenameInCategoryTables(values, m.layout, oldName, newName, newType)
	for _, vr := range updates {
		if err := m.apply(vr); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// ReadPeriodSelection implements service.PeriodInput.
func (m *MemoryWorkbook) ReadPeriodSelection(_ context.Context) (string, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.require(m.layout.OverviewSheet); err != nil {
		return "", 0, err
	}
	year, err := m.read(CellRange(m.layout.OverviewSheet, m.layout.YearCell))
	if err != nil {
		return "", 0, err
	}
	label, err := m.read(CellRange(m.layout.OverviewSheet, m.layout.PeriodCell))
	if err != nil {
		return "", 0, err
	}
	l, y := DecodePeriodSelection(firstValue(year), firstValue(label), m.now())
	return l, y, nil
}

// WriteTotals implements service.TotalsWriter.
func (m *MemoryWorkbook) WriteTotals(_ context.Context, totals model.Totals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.require(m.layout.OverviewSheet); err != nil {
		return err
	}
	for _, vr := range EncodeTotals(totals, m.layout) {
		if err := m.apply(vr); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryWorkbook) require(sheet string) error {
	if _, ok := m.sheets[sheet]; !ok {
		return fmt.Errorf("%w: sheet %q", common.ErrMissingSource, sheet)
	}
	return nil
}

func (m *MemoryWorkbook) apply(vr *sheets.ValueRange) error {
	ref, err := parseRange(vr.Range)
	if err != nil {
		return err
	}
	grid, ok := m.sheets[ref.Sheet]
	if !ok {
		return fmt.Errorf("%w: sheet %q", common.ErrMissingSource, ref.Sheet)
	}
	for r, row := range vr.Values {
		ri := ref.FirstRow - 1 + r
		for len(grid) <= ri {
			grid = append(grid, nil)
		}
		for c, v := range row {
			ci := ref.FirstCol + c
			for len(grid[ri]) <= ci {
				grid[ri] = append(grid[ri], "")
			}
			grid[ri][ci] = v
		}
	}
	m.sheets[ref.Sheet] = grid
	return nil
}

func (m *MemoryWorkbook) read(a1 string) (Grid, error) {
	ref, err := parseRange(a1)
	if err != nil {
		return nil, err
	}
	grid, ok := m.sheets[ref.Sheet]
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q", common.ErrMissingSource, ref.Sheet)
	}

	lastRow := ref.LastRow
	if lastRow == 0 || lastRow > len(grid) {
		lastRow = len(grid)
	}

	var out Grid
	for ri := ref.FirstRow - 1; ri < lastRow; ri++ {
		var row []any
		for ci := ref.FirstCol; ci <= ref.LastCol; ci++ {
			var v any = ""
			if ci < len(grid[ri]) && grid[ri][ci] != nil {
				v = grid[ri][ci]
			}
			row = append(row, v)
		}
		out = append(out, trimRow(row))
	}

	// Trailing empty rows are not returned, matching the values API.
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *MemoryWorkbook) clearColumn(sheet string, col, fromRow int) {
	grid := m.sheets[sheet]
	for ri := fromRow - 1; ri < len(grid); ri++ {
		if col < len(grid[ri]) {
			grid[ri][col] = ""
		}
	}
}

func trimRow(row []any) []any {
	for len(row) > 0 {
		if s, ok := row[len(row)-1].(string); ok && s == "" {
			row = row[:len(row)-1]
			continue
		}
		break
	}
	return row
}

func firstValue(g Grid) any {
	if len(g) == 0 || len(g[0]) == 0 {
		return nil
	}
	return g[0][0]
}
