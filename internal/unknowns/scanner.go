// Package unknowns groups uncategorized ledger entries by description so
// they can be turned into rules.
package unknowns

import (
	"sort"
	"strings"

	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/shopspring/decimal"
)

type group struct {
	keyword     string
	count       int
	totalDebit  decimal.Decimal
	totalCredit decimal.Decimal
}

// Scan walks both sides of every row and groups entries whose category is
// empty, "unknown" or "none". Groups are keyed by the lower-cased description
// and returned by descending count; ties keep encounter order.
func Scan(ledger model.Ledger) []model.UnknownGroup {
	groups := make(map[string]*group)
	var order []string

	for _, row := range ledger {
		if row.IsBlank() {
			continue
		}
		for _, side := range model.Sides() {
			entry := row.Entry(side)
			desc := strings.TrimSpace(entry.Description)
			if desc == "" || !model.IsUnknownCategory(entry.Category) {
				continue
			}

			key := strings.ToLower(desc)
			g, ok := groups[key]
			if !ok {
				g = &group{keyword: desc, totalDebit: decimal.Zero, totalCredit: decimal.Zero}
				groups[key] = g
				order = append(order, key)
			}
			g.count++

			if !entry.Amount.IsPositive() {
				continue
			}
			if side == model.SideDebit {
				g.totalDebit = g.totalDebit.Add(entry.Amount)
			} else {
				g.totalCredit = g.totalCredit.Add(entry.Amount)
			}
		}
	}

	out := make([]model.UnknownGroup, 0, len(order))
	for _, key := range order {
		out = append(out, finalize(groups[key]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func finalize(g *group) model.UnknownGroup {
	n := decimal.NewFromInt(int64(max(g.count, 1)))
	avgDebit := g.totalDebit.Div(n)
	avgCredit := g.totalCredit.Div(n)

	dir := model.DirectionIn
	if avgDebit.GreaterThan(avgCredit) {
		dir = model.DirectionOut
	}

	return model.UnknownGroup{
		Keyword:       g.keyword,
		Direction:     dir,
		Count:         g.count,
		AverageDebit:  avgDebit.InexactFloat64(),
		AverageCredit: avgCredit.InexactFloat64(),
	}
}

// TotalCount sums the occurrence counts of all groups.
func TotalCount(groups []model.UnknownGroup) int {
	total := 0
	for _, g := range groups {
		total += g.Count
	}
	return total
}
