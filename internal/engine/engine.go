// Package engine coordinates the catalog, rules, classifier, aggregation and
// unknown scan against one workbook, in the order a full refresh needs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/budget-sheets/internal/aggregate"
	"github.com/Veraticus/budget-sheets/internal/catalog"
	"github.com/Veraticus/budget-sheets/internal/classify"
	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/Veraticus/budget-sheets/internal/period"
	"github.com/Veraticus/budget-sheets/internal/rename"
	"github.com/Veraticus/budget-sheets/internal/rules"
	"github.com/Veraticus/budget-sheets/internal/service"
	"github.com/Veraticus/budget-sheets/internal/unknowns"
)

// Deps contains everything the engine needs.
type Deps struct {
	// Workbook is the spreadsheet holding the ledger, settings and dashboard.
	Workbook service.Workbook
	// Properties persists rules and import preferences.
	Properties service.PropertyStore
	// Sections maps categories to dashboard sections. Nil uses the built-in table.
	Sections *aggregate.SectionMap
	// RequiredSheets are reported by Health.
	RequiredSheets []string
	Logger         *slog.Logger
}

// Validate ensures all required dependencies are provided.
func (d *Deps) Validate() error {
	if d.Workbook == nil {
		return fmt.Errorf("workbook dependency is required")
	}
	if d.Properties == nil {
		return fmt.Errorf("property store dependency is required")
	}
	return nil
}

// Engine runs the budget workflows.
type Engine struct {
	workbook   service.Workbook
	catalog    *catalog.Catalog
	rules      *rules.Store
	classifier *classify.Classifier
	aggregator *aggregate.Engine
	renamer    *rename.Renamer
	required   []string
	logger     *slog.Logger
}

// New creates an engine from deps.
func New(deps Deps) (*Engine, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}

	logger := common.LoggerOrDefault(deps.Logger)
	sections := deps.Sections
	if sections == nil {
		var err error
		sections, err = aggregate.DefaultSectionMap()
		if err != nil {
			return nil, err
		}
	}

	store := rules.NewStore(deps.Properties, logger)
	// The follow-up refresh rebuilds the catalog, so the renamer does not.
	renamer := rename.New(deps.Workbook, deps.Workbook, store, nil, logger)

	return &Engine{
		workbook:   deps.Workbook,
		catalog:    catalog.New(deps.Workbook, deps.Workbook, logger),
		rules:      store,
		classifier: classify.New(store, logger),
		aggregator: aggregate.NewEngine(sections, logger),
		renamer:    renamer,
		required:   deps.RequiredSheets,
		logger:     logger,
	}, nil
}

// Rules exposes the rule store.
func (e *Engine) Rules() *rules.Store {
	return e.rules
}

// Catalog exposes the category catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Classifier exposes the rule classifier.
func (e *Engine) Classifier() *classify.Classifier {
	return e.classifier
}

// RefreshReport describes what one refresh did.
type RefreshReport struct {
	Categories int
	Rules      classify.Stats
	Period     string
	Year       int
	// Totals is nil when the selected period could not be resolved.
	Totals   *model.Totals
	Unknowns []model.UnknownGroup
}

// Refresh rebuilds the catalog, reapplies every rule, recomputes the
// dashboard and rescans unknowns.
func (e *Engine) Refresh(ctx context.Context) (RefreshReport, error) {
	defs, err := e.catalog.Rebuild(ctx)
	if err != nil {
		return RefreshReport{}, err
	}

	report, err := e.recompute(ctx)
	report.Categories = len(defs)
	return report, err
}

// ImportReport describes an import followed by a recompute.
type ImportReport struct {
	FirstRow int
	LastRow  int
	Inserted int
	RefreshReport
}

// AfterImport appends rows to the ledger and recomputes everything that
// depends on it. The catalog is left as is.
func (e *Engine) AfterImport(ctx context.Context, rows []model.LedgerRow) (ImportReport, error) {
	if len(rows) == 0 {
		return ImportReport{}, nil
	}

	first, last, err := e.workbook.AppendLedger(ctx, rows)
	if err != nil {
		return ImportReport{}, fmt.Errorf("failed to append imported rows: %w", err)
	}
	e.logger.Info("appended imported rows", "rows", len(rows), "first", first, "last", last)

	report, err := e.recompute(ctx)
	return ImportReport{FirstRow: first, LastRow: last, Inserted: len(rows), RefreshReport: report}, err
}

// SaveRules stores rules in one batch and reapplies them to the ledger.
func (e *Engine) SaveRules(ctx context.Context, newRules []model.Rule) (RefreshReport, error) {
	if _, err := e.rules.SaveAll(ctx, newRules); err != nil {
		return RefreshReport{}, err
	}
	return e.AfterRuleSave(ctx)
}

// AfterRuleSave reapplies rules after they changed.
func (e *Engine) AfterRuleSave(ctx context.Context) (RefreshReport, error) {
	return e.recompute(ctx)
}

// Rename renames a category everywhere, then runs a full refresh.
func (e *Engine) Rename(ctx context.Context, oldName, newName string, newType model.BudgetType) (rename.Result, RefreshReport, error) {
	res, err := e.renamer.Rename(ctx, oldName, newName, newType)
	if err != nil {
		return res, RefreshReport{}, err
	}
	report, err := e.AfterRename(ctx)
	return res, report, err
}

// AfterRename runs a full refresh.
func (e *Engine) AfterRename(ctx context.Context) (RefreshReport, error) {
	return e.Refresh(ctx)
}

// Categorize applies rules to the ledger and writes back changed classifications.
func (e *Engine) Categorize(ctx context.Context) (classify.Stats, error) {
	ledger, err := e.workbook.ReadLedger(ctx)
	if err != nil {
		return classify.Stats{}, fmt.Errorf("failed to read ledger: %w", err)
	}
	stats, _, err := e.categorize(ctx, ledger)
	return stats, err
}

// Unknowns scans the ledger for unclassified entries.
func (e *Engine) Unknowns(ctx context.Context) ([]model.UnknownGroup, error) {
	ledger, err := e.workbook.ReadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return unknowns.Scan(ledger), nil
}

// Suggest guesses a category for each description from the current catalog.
func (e *Engine) Suggest(ctx context.Context, descriptions []string) ([]classify.Suggestion, error) {
	defs, err := e.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	return classify.GuessAll(descriptions, defs), nil
}

// Totals aggregates the ledger for an explicit period without writing anything.
func (e *Engine) Totals(ctx context.Context, label string, year int) (model.Totals, error) {
	window, ok := period.Resolve(label, year)
	if !ok {
		return model.Totals{}, invalidPeriod(label)
	}
	ledger, err := e.workbook.ReadLedger(ctx)
	if err != nil {
		return model.Totals{}, fmt.Errorf("failed to read ledger: %w", err)
	}
	return e.aggregator.Aggregate(ledger, window), nil
}

// HealthReport summarizes the state of the workbook.
type HealthReport struct {
	Sheets        map[string]bool
	Categories    int
	Blocks        int
	UnknownGroups int
	Problems      []string
}

// OK reports whether the health check found nothing wrong.
func (h HealthReport) OK() bool {
	if len(h.Problems) > 0 {
		return false
	}
	for _, present := range h.Sheets {
		if !present {
			return false
		}
	}
	return true
}

// Health checks sheets, categories and unknowns. Read failures are collected
// as problems rather than returned.
func (e *Engine) Health(ctx context.Context) (HealthReport, error) {
	report := HealthReport{Sheets: make(map[string]bool, len(e.required))}

	names, err := e.workbook.SheetNames(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list sheets: %w", err)
	}
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	for _, n := range e.required {
		report.Sheets[n] = present[n]
	}

	if defs, err := e.catalog.List(ctx); err != nil {
		report.Problems = append(report.Problems, "reading categories: "+err.Error())
	} else {
		report.Categories = len(defs)
	}
	if blocks, err := e.catalog.Blocks(ctx); err == nil {
		report.Blocks = len(blocks)
	}

	if groups, err := e.Unknowns(ctx); err != nil {
		report.Problems = append(report.Problems, "scanning unknown transactions: "+err.Error())
	} else {
		report.UnknownGroups = len(groups)
	}

	return report, nil
}

// recompute applies rules, writes the ledger back when something changed,
// scans unknowns and refreshes the dashboard totals.
func (e *Engine) recompute(ctx context.Context) (RefreshReport, error) {
	var report RefreshReport

	ledger, err := e.workbook.ReadLedger(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read ledger: %w", err)
	}

	report.Rules, ledger, err = e.categorize(ctx, ledger)
	if err != nil {
		return report, err
	}
	report.Unknowns = unknowns.Scan(ledger)

	label, year, err := e.workbook.ReadPeriodSelection(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read period selection: %w", err)
	}
	report.Period, report.Year = label, year

	window, ok := period.Resolve(label, year)
	if !ok {
		e.logger.Warn("period selection not recognized, totals left unchanged", "period", label, "year", year)
		return report, invalidPeriod(label)
	}

	totals := e.aggregator.Aggregate(ledger, window)
	if err := e.workbook.WriteTotals(ctx, totals); err != nil {
		return report, fmt.Errorf("failed to write totals: %w", err)
	}
	report.Totals = &totals

	e.logger.Info("dashboard refreshed",
		"period", label,
		"year", year,
		"income", totals.Income.String(),
		"spending", totals.Spending.String(),
		"unknown_groups", len(report.Unknowns))
	return report, nil
}

func (e *Engine) categorize(ctx context.Context, ledger model.Ledger) (classify.Stats, model.Ledger, error) {
	stats, err := e.classifier.ApplyRules(ctx, ledger)
	if err != nil {
		return stats, ledger, err
	}
	if stats.Changed == 0 {
		return stats, ledger, nil
	}
	if err := e.workbook.WriteLedger(ctx, ledger); err != nil {
		return stats, ledger, fmt.Errorf("failed to write ledger: %w", err)
	}
	return stats, ledger, nil
}

func invalidPeriod(label string) error {
	if strings.TrimSpace(label) == "" {
		return common.NewUserError("no period selected", common.ErrInvalidPeriod)
	}
	return common.NewUserError(fmt.Sprintf("unrecognized period %q", label), common.ErrInvalidPeriod)
}

// IsInvalidPeriod reports whether err came from an unresolvable period selection.
func IsInvalidPeriod(err error) bool {
	return errors.Is(err, common.ErrInvalidPeriod)
}
