// Package importer converts bank CSV exports into ledger rows.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/shopspring/decimal"
)

// Unmapped marks a field with no source column.
const Unmapped = -1

// ColumnMapping holds zero-based CSV column indexes per ledger field.
type ColumnMapping struct {
	Date        int `json:"date"`
	Description int `json:"description"`
	Debit       int `json:"debit"`
	Credit      int `json:"credit"`
	Balance     int `json:"balance"`
}

// DefaultMapping is the layout of a plain five column export.
func DefaultMapping() ColumnMapping {
	return ColumnMapping{Date: 0, Description: 1, Debit: 2, Credit: 3, Balance: 4}
}

// Options controls how CSV text is read.
type Options struct {
	// Progress, when set, is called once per data record.
	Progress  func()
	Mapping   ColumnMapping
	Delimiter rune
	HasHeader bool
}

// Result is the outcome of one parse.
type Result struct {
	Rows     []model.LedgerRow
	Inserted int
	Dropped  int
}

var errBadCell = errors.New("unparseable cell")

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
	"2006/01/02",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// Parse reads CSV text into ledger rows. Rows with neither a description nor
// an amount are skipped; rows with a date or amount that cannot be read are
// dropped and counted. Empty text is not an error.
func Parse(text string, opts Options) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = opts.Delimiter
	if r.Comma == 0 {
		r.Comma = ','
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read CSV content: %w", err)
	}

	if opts.HasHeader && len(records) > 0 {
		records = records[1:]
	}

	res := Result{Rows: make([]model.LedgerRow, 0, len(records))}
	for _, record := range records {
		if opts.Progress != nil {
			opts.Progress()
		}

		row, ok, err := buildRow(record, opts.Mapping)
		if err != nil {
			res.Dropped++
			continue
		}
		if !ok {
			continue
		}
		row.Index = len(res.Rows)
		res.Rows = append(res.Rows, row)
	}
	res.Inserted = len(res.Rows)

	return res, nil
}

// buildRow places the record on the credit side when it only carries a
// credit amount and on the debit side otherwise.
func buildRow(record []string, m ColumnMapping) (model.LedgerRow, bool, error) {
	desc := strings.TrimSpace(cell(record, m.Description))

	debit, err := parseAmount(cell(record, m.Debit))
	if err != nil {
		return model.LedgerRow{}, false, err
	}
	credit, err := parseAmount(cell(record, m.Credit))
	if err != nil {
		return model.LedgerRow{}, false, err
	}
	balance, err := parseAmount(cell(record, m.Balance))
	if err != nil {
		return model.LedgerRow{}, false, err
	}

	if desc == "" && debit.IsZero() && credit.IsZero() {
		return model.LedgerRow{}, false, nil
	}

	date, err := parseDate(cell(record, m.Date))
	if err != nil {
		return model.LedgerRow{}, false, err
	}

	var row model.LedgerRow
	if debit.IsZero() && !credit.IsZero() {
		row.Credit = model.Entry{Date: date, Description: desc, Amount: credit}
		row.Debit = model.Entry{Balance: balance}
		return row, true, nil
	}

	row.Debit = model.Entry{
		Date:        date,
		Description: desc,
		Amount:      debit,
		Credit:      credit,
		Balance:     balance,
	}
	return row, true, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseDate accepts the common bank export layouts. Month-first slashes are
// tried before day-first ones. A blank cell yields the zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", errBadCell, s)
}

// parseAmount keeps digits, dots and minus signs. A blank cell is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q", errBadCell, s)
	}
	return d, nil
}
