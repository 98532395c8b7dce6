package aggregate

import (
	"log/slog"
	"strings"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
)

// Engine aggregates ledgers against a section map.
type Engine struct {
	sections *SectionMap
	logger   *slog.Logger
}

// NewEngine creates an aggregation engine.
func NewEngine(sections *SectionMap, logger *slog.Logger) *Engine {
	return &Engine{
		sections: sections,
		logger:   common.LoggerOrDefault(logger),
	}
}

// Sections exposes the section map the engine resolves against.
func (e *Engine) Sections() *SectionMap {
	return e.sections
}

// Aggregate makes one pass over the ledger. Every side with a description and
// a non-zero amount feeds the monthly trend of the window's year; sides dated
// inside the window also feed the period totals.
func (e *Engine) Aggregate(ledger model.Ledger, window model.PeriodWindow) model.Totals {
	totals := model.NewTotals(window, e.sections.Names())
	year := window.Year()
	counted := 0

	for i := range ledger {
		for _, side := range model.Sides() {
			entry := ledger[i].Entry(side)
			if strings.TrimSpace(entry.Description) == "" || entry.Amount.IsZero() || entry.Date.IsZero() {
				continue
			}
			income := entry.Type == model.TypeIncome

			if entry.Date.Year() == year {
				m := &totals.Monthly[entry.Date.Month()-1]
				if income {
					m.Income = m.Income.Add(entry.Amount)
				} else {
					m.Spending = m.Spending.Add(entry.Amount)
				}
			}

			if !window.Contains(entry.Date) {
				continue
			}
			counted++

			if income {
				totals.Income = totals.Income.Add(entry.Amount)
			} else {
				totals.Spending = totals.Spending.Add(entry.Amount)
			}
			if cur, ok := totals.ByType[entry.Type]; ok {
				totals.ByType[entry.Type] = cur.Add(entry.Amount)
			}

			section := e.sections.Resolve(entry.Category, entry.Type)
			totals.BySection[section] = totals.BySection[section].Add(entry.Amount)
		}
	}

	e.logger.Debug("aggregated ledger",
		"rows", len(ledger),
		"in_window", counted,
		"start", window.Start.Format("2006-01-02"),
		"end", window.End.Format("2006-01-02"))
	return totals
}
