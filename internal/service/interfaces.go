// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/budget-sheets/internal/model"
)

// PropertyStore is a flat string-keyed store for small persisted values such
// as saved rules and import preferences.
type PropertyStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes every value or none of them.
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}

// LedgerStore reads and writes the transactions grid.
type LedgerStore interface {
	// ReadLedger returns every data row below the header block.
	ReadLedger(ctx context.Context) (model.Ledger, error)
	// WriteLedger overwrites the data rows with the given ledger.
	WriteLedger(ctx context.Context, ledger model.Ledger) error
	// AppendLedger adds rows after the last used row and reports the sheet row
	// numbers (1-based) of the first and last inserted rows.
	AppendLedger(ctx context.Context, rows []model.LedgerRow) (first, last int, err error)
}

// CatalogSource reads the settings category tables.
type CatalogSource interface {
	// ReadCategoryDefinitions returns raw table rows in table-declaration
	// order, then row order. Blank names are included.
	ReadCategoryDefinitions(ctx context.Context) ([]model.CategoryDefinition, error)
}

// CatalogPublisher exposes the combined category list to dropdown validation.
type CatalogPublisher interface {
	PublishCategoryList(ctx context.Context, names []string) error
}

// SettingsEditor rewrites category names inside the settings tables.
type SettingsEditor interface {
	RenameCategory(ctx context.Context, oldName, newName string, newType model.BudgetType) (int, error)
}

// PeriodInput reads the dashboard period selection cells.
type PeriodInput interface {
	ReadPeriodSelection(ctx context.Context) (label string, year int, err error)
}

// TotalsWriter writes aggregated totals to the dashboard cells.
type TotalsWriter interface {
	WriteTotals(ctx context.Context, totals model.Totals) error
}

// Workbook is the full spreadsheet collaborator used by the engine.
type Workbook interface {
	LedgerStore
	CatalogSource
	CatalogPublisher
	SettingsEditor
	PeriodInput
	TotalsWriter
	// SheetNames lists the sheets present in the workbook.
	SheetNames(ctx context.Context) ([]string, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
