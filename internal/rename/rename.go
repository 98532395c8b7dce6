// Package rename renames a category across the settings tables, the ledger
// and the saved rules.
package rename

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/Veraticus/budget-sheets/internal/service"
)

// RuleRenamer rewrites the category of saved rules.
type RuleRenamer interface {
	RenameCategory(ctx context.Context, oldName, newName string, newType model.BudgetType) (int, error)
}

// CatalogRebuilder republishes the combined category list.
type CatalogRebuilder interface {
	Rebuild(ctx context.Context) ([]model.CategoryDefinition, error)
}

// Result counts what a rename touched.
type Result struct {
	SettingsUpdated int
	LedgerUpdated   int
	RulesUpdated    int
}

// Renamer applies a rename everywhere a category name is stored.
type Renamer struct {
	settings service.SettingsEditor
	ledger   service.LedgerStore
	rules    RuleRenamer
	catalog  CatalogRebuilder
	logger   *slog.Logger
}

// New creates a renamer. rules and catalog may be nil.
func New(settings service.SettingsEditor, ledger service.LedgerStore, rules RuleRenamer, catalog CatalogRebuilder, logger *slog.Logger) *Renamer {
	return &Renamer{
		settings: settings,
		ledger:   ledger,
		rules:    rules,
		catalog:  catalog,
		logger:   common.LoggerOrDefault(logger),
	}
}

// Rename replaces oldName with newName. Names are compared case-insensitively
// after trimming. A non-empty newType also replaces the paired type cell.
func (r *Renamer) Rename(ctx context.Context, oldName, newName string, newType model.BudgetType) (Result, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return Result{}, common.NewUserError("old and new names required", common.ErrEmptyInput)
	}

	var res Result
	var err error

	res.SettingsUpdated, err = r.settings.RenameCategory(ctx, oldName, newName, newType)
	if err != nil {
		return res, fmt.Errorf("failed to rename in settings: %w", err)
	}

	res.LedgerUpdated, err = r.renameLedger(ctx, oldName, newName, newType)
	if err != nil {
		return res, err
	}

	if r.rules != nil {
		res.RulesUpdated, err = r.rules.RenameCategory(ctx, oldName, newName, newType)
		if err != nil {
			return res, fmt.Errorf("failed to rename in rules: %w", err)
		}
	}

	if r.catalog != nil {
		if _, err := r.catalog.Rebuild(ctx); err != nil {
			return res, fmt.Errorf("failed to rebuild catalog after rename: %w", err)
		}
	}

	r.logger.Info("renamed category",
		"from", oldName,
		"to", newName,
		"settings", res.SettingsUpdated,
		"ledger", res.LedgerUpdated,
		"rules", res.RulesUpdated)
	return res, nil
}

func (r *Renamer) renameLedger(ctx context.Context, oldName, newName string, newType model.BudgetType) (int, error) {
	ledger, err := r.ledger.ReadLedger(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read ledger: %w", err)
	}

	target := model.CategoryKey(oldName)
	count := 0
	for i := range ledger {
		for _, side := range model.Sides() {
			entry := ledger[i].Entry(side)
			if model.CategoryKey(entry.Category) != target {
				continue
			}
			entry.Category = newName
			if newType != "" {
				entry.Type = newType
			}
			count++
		}
	}

	if count == 0 {
		return 0, nil
	}
	if err := r.ledger.WriteLedger(ctx, ledger); err != nil {
		return 0, fmt.Errorf("failed to write ledger: %w", err)
	}
	return count, nil
}
