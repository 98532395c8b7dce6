package sheets

import (
	"context"
	"log/slog"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/Veraticus/budget-sheets/internal/service"
)

// DryRun passes reads through to a workbook and logs writes instead of
// applying them.
type DryRun struct {
	service.Workbook
	logger *slog.Logger
}

var _ service.Workbook = (*DryRun)(nil)

// NewDryRun wraps wb.
func NewDryRun(wb service.Workbook, logger *slog.Logger) *DryRun {
	return &DryRun{Workbook: wb, logger: common.LoggerOrDefault(logger)}
}

// WriteLedger logs the write and discards it.
func (d *DryRun) WriteLedger(_ context.Context, ledger model.Ledger) error {
	d.logger.Info("dry run: skipping ledger write", "rows", len(ledger))
	return nil
}

// AppendLedger logs the append and discards it. No rows are reported.
func (d *DryRun) AppendLedger(_ context.Context, rows []model.LedgerRow) (int, int, error) {
	d.logger.Info("dry run: skipping ledger append", "rows", len(rows))
	return 0, 0, nil
}

// PublishCategoryList logs the list and discards it.
func (d *DryRun) PublishCategoryList(_ context.Context, names []string) error {
	d.logger.Info("dry run: skipping category list publish", "categories", len(names))
	return nil
}

// RenameCategory reports how many table entries would change without changing them.
func (d *DryRun) RenameCategory(ctx context.Context, oldName, newName string, _ model.BudgetType) (int, error) {
	defs, err := d.ReadCategoryDefinitions(ctx)
	if err != nil {
		return 0, err
	}
	target := model.CategoryKey(oldName)
	count := 0
	for _, def := range defs {
		if model.CategoryKey(def.Name) == target {
			count++
		}
	}
	d.logger.Info("dry run: skipping settings rename", "from", oldName, "to", newName, "matches", count)
	return count, nil
}

// WriteTotals logs the headline totals and discards the write.
func (d *DryRun) WriteTotals(_ context.Context, totals model.Totals) error {
	d.logger.Info("dry run: skipping totals write",
		"income", totals.Income.String(),
		"spending", totals.Spending.String())
	return nil
}
