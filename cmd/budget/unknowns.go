package main

import (
	"fmt"

	"github.com/Veraticus/budget-sheets/internal/cli"
	"github.com/Veraticus/budget-sheets/internal/engine"
	"github.com/spf13/cobra"
)

func unknownsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unknowns",
		Short: "List uncategorized transactions grouped by description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := a.engine.Unknowns(ctx)
			if err != nil {
				return err
			}
			printUnknowns(cmd.OutOrStdout(), groups)
			return nil
		},
	}

	cmd.AddCommand(resolveCmd())
	return cmd
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Turn unknown groups into rules interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			handler := cli.NewInterruptHandler(out, "Rules answered before the interrupt were not saved.")
			ctx, stop := handler.HandleInterrupts(cmd.Context())
			defer stop()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := a.engine.Unknowns(ctx)
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				fmt.Fprintln(out, cli.FormatSuccess("Every transaction has a category"))
				return nil
			}
			defs, err := a.engine.Catalog().List(ctx)
			if err != nil {
				return err
			}

			resolver := cli.NewResolver(cmd.InOrStdin(), out)
			rules, err := resolver.Resolve(ctx, groups, defs)
			if err != nil {
				if handler.WasInterrupted() {
					return nil
				}
				return err
			}

			stats := resolver.Stats()
			fmt.Fprintln(out, cli.RenderBox("Resolution Complete", fmt.Sprintf(
				"Accepted suggestions: %d\nChosen categories:    %d\nSkipped:              %d",
				stats.Accepted, stats.Custom, stats.Skipped)))
			if len(rules) == 0 {
				return nil
			}

			report, err := a.engine.SaveRules(ctx, rules)
			if err != nil && !engine.IsInvalidPeriod(err) {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved %d rule(s)", len(rules))))
			printRefreshReport(out, report)
			return nil
		},
	}
}
