package main

import (
	"fmt"

	"github.com/Veraticus/budget-sheets/internal/cli"
	"github.com/Veraticus/budget-sheets/internal/engine"
	"github.com/spf13/cobra"
)

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild categories, reapply rules and recompute the dashboard",
		Long: `Run every step in order: publish the combined category list, reapply saved
rules to every transaction, recompute the dashboard totals for the period selected
on the overview sheet and rescan uncategorized transactions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.engine.Refresh(ctx)
			if err != nil && !engine.IsInvalidPeriod(err) {
				return err
			}
			printRefreshReport(cmd.OutOrStdout(), report)
			return err
		},
	}
}

func categorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize",
		Short: "Apply saved rules to every transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.engine.Categorize(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Rules matched %d of %d entries (%d changed)",
				stats.Matched, stats.Scanned, stats.Changed)))
			return nil
		},
	}
}

func periodCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "period <label>",
		Short: "Show totals for a period without touching the dashboard",
		Long: `Aggregate the ledger for a period label: Annual, Q1 to Q4, First Quarter to
Fourth Quarter, or a month name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			label := joinArgs(args)
			totals, err := a.engine.Totals(ctx, label, year)
			if err != nil {
				return err
			}
			printTotals(cmd.OutOrStdout(), label, totals)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", currentYear(), "calendar year")
	return cmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the workbook has everything the engine needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.engine.Health(ctx)
			if err != nil {
				return err
			}

			for _, name := range []string{a.layout.LedgerSheet, a.layout.SettingsSheet, a.layout.OverviewSheet} {
				if report.Sheets[name] {
					fmt.Fprintln(out, cli.FormatSuccess(name+" sheet found"))
				} else {
					fmt.Fprintln(out, cli.FormatError(name+" sheet missing"))
				}
			}
			fmt.Fprintf(out, "Categories loaded: %d\n", report.Categories)
			fmt.Fprintf(out, "Blocks detected: %d\n", report.Blocks)
			fmt.Fprintf(out, "Unknown transaction groups: %d\n", report.UnknownGroups)
			for _, p := range report.Problems {
				fmt.Fprintln(out, cli.FormatWarning(p))
			}

			if !report.OK() {
				return fmt.Errorf("health check found problems")
			}
			return nil
		},
	}
}
