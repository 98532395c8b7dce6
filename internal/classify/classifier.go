// Package classify assigns categories to ledger entries from saved rules
// and suggests categories for descriptions that have none.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
)

// RuleSource is the subset of the rule store the classifier reads.
type RuleSource interface {
	Lookup(ctx context.Context, keyword string, direction model.Direction) (model.Rule, bool, error)
	GetAll(ctx context.Context) ([]model.Rule, error)
}

// Result is the outcome of classifying one description.
type Result struct {
	Category string
	Type     model.BudgetType
	Matched  bool
}

// Stats summarizes a bulk rule application.
type Stats struct {
	Scanned int
	Matched int
	Changed int
}

// Classifier applies exact-match rules.
type Classifier struct {
	rules  RuleSource
	logger *slog.Logger
}

// New creates a classifier reading rules from source.
func New(source RuleSource, logger *slog.Logger) *Classifier {
	return &Classifier{
		rules:  source,
		logger: common.LoggerOrDefault(logger),
	}
}

// Classify looks up the rule for description and direction, falling back to
// the "any" rule. An empty description never matches.
func (c *Classifier) Classify(ctx context.Context, description string, direction model.Direction) (Result, error) {
	keyword := model.NormalizeName(description)
	if keyword == "" {
		return Result{}, nil
	}

	for _, dir := range candidates(direction) {
		rule, ok, err := c.rules.Lookup(ctx, keyword, dir)
		if err != nil {
			return Result{}, fmt.Errorf("failed to look up rule: %w", err)
		}
		if ok {
			return Result{Matched: true, Category: rule.Category, Type: rule.Type}, nil
		}
	}
	return Result{}, nil
}

// ApplyRules rewrites category and type on every ledger side a rule matches.
// Unmatched sides keep whatever classification they already had.
func (c *Classifier) ApplyRules(ctx context.Context, ledger model.Ledger) (Stats, error) {
	all, err := c.rules.GetAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load rules: %w", err)
	}
	idx := newIndex(all)

	var stats Stats
	for i := range ledger {
		row := &ledger[i]
		for _, side := range model.Sides() {
			entry := row.Entry(side)
			if strings.TrimSpace(entry.Description) == "" {
				continue
			}
			stats.Scanned++

			res := idx.classify(entry.Description, entry.Direction(side))
			if !res.Matched {
				continue
			}
			stats.Matched++
			if entry.Category != res.Category || entry.Type != res.Type {
				entry.Category = res.Category
				entry.Type = res.Type
				stats.Changed++
			}
		}
	}

	c.logger.Info("applied rules",
		"rules", len(all),
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"changed", stats.Changed)
	return stats, nil
}

func candidates(direction model.Direction) []model.Direction {
	if direction == "" || direction == model.DirectionAny {
		return []model.Direction{model.DirectionAny}
	}
	return []model.Direction{direction, model.DirectionAny}
}

// index is an in-memory snapshot of the rule store keyed like the store.
type index map[string]model.Rule

func newIndex(rules []model.Rule) index {
	idx := make(index, len(rules))
	for _, r := range rules {
		idx[r.Key()] = r
	}
	return idx
}

func (idx index) classify(description string, direction model.Direction) Result {
	keyword := model.NormalizeName(description)
	if keyword == "" {
		return Result{}
	}
	for _, dir := range candidates(direction) {
		if r, ok := idx[model.RuleKey(keyword, dir)]; ok {
			return Result{Matched: true, Category: r.Category, Type: r.Type}
		}
	}
	return Result{}
}
