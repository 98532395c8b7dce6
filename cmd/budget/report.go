package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/budget-sheets/internal/cli"
	"github.com/Veraticus/budget-sheets/internal/engine"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/Veraticus/budget-sheets/internal/period"
	"github.com/Veraticus/budget-sheets/internal/unknowns"
	"github.com/shopspring/decimal"
)

func printRefreshReport(w io.Writer, r engine.RefreshReport) {
	if r.Categories > 0 {
		fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Published %d categories", r.Categories)))
	}
	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Rules matched %d of %d entries (%d changed)",
		r.Rules.Matched, r.Rules.Scanned, r.Rules.Changed)))
	if r.Totals != nil {
		fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("%s %d: income %s, spending %s",
			r.Period, r.Year, cli.FormatMoney(r.Totals.Income), cli.FormatMoney(r.Totals.Spending))))
	}
	if n := unknowns.TotalCount(r.Unknowns); n > 0 {
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("%d uncategorized entries in %d groups; run 'budget unknowns resolve'",
			n, len(r.Unknowns))))
	}
}

func printTotals(w io.Writer, label string, t model.Totals) {
	fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("%s %d (%s to %s)", label, t.Window.Year(),
		t.Window.Start.Format("2006-01-02"), t.Window.End.Format("2006-01-02"))))

	rows := [][]string{
		{"Income", cli.FormatMoney(t.Income)},
		{"Spending", cli.FormatMoney(t.Spending)},
	}
	for _, bt := range model.BucketTypes() {
		rows = append(rows, []string{"  " + string(bt), cli.FormatMoney(t.ByType[bt])})
	}
	fmt.Fprintln(w, cli.RenderTable([]string{"Total", "Amount"}, rows))

	rows = rows[:0]
	for _, name := range t.Sections {
		rows = append(rows, []string{name, cli.FormatMoney(t.BySection[name])})
	}
	fmt.Fprintln(w, cli.RenderTable([]string{"Section", "Amount"}, rows))

	rows = rows[:0]
	for i, m := range t.Monthly {
		if m.Income.IsZero() && m.Spending.IsZero() {
			continue
		}
		rows = append(rows, []string{period.MonthName(i + 1), cli.FormatMoney(m.Income), cli.FormatMoney(m.Spending)})
	}
	if len(rows) > 0 {
		fmt.Fprintln(w, cli.RenderTable([]string{"Month", "Income", "Spending"}, rows))
	}
}

func printUnknowns(w io.Writer, groups []model.UnknownGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, cli.FormatSuccess("Every transaction has a category"))
		return
	}
	rows := make([][]string, len(groups))
	for i, g := range groups {
		rows[i] = []string{
			g.Keyword,
			strconv.Itoa(g.Count),
			string(g.Direction),
			cli.FormatMoney(decimal.NewFromFloat(g.AverageDebit)),
			cli.FormatMoney(decimal.NewFromFloat(g.AverageCredit)),
		}
	}
	fmt.Fprint(w, cli.RenderTable([]string{"Description", "Count", "Direction", "Avg debit", "Avg credit"}, rows))
	fmt.Fprintln(w, cli.SubtleStyle.Render(fmt.Sprintf("%d entries in %d groups", unknowns.TotalCount(groups), len(groups))))
}
