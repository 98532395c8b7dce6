package main

import (
	"fmt"

	"github.com/Veraticus/budget-sheets/internal/cli"
	"github.com/Veraticus/budget-sheets/internal/classify"
	"github.com/Veraticus/budget-sheets/internal/engine"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories by settings table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			blocks, err := a.engine.Catalog().Blocks(ctx)
			if err != nil {
				return err
			}
			if len(blocks) == 0 {
				fmt.Fprintln(out, cli.FormatWarning("No categories found in the settings tables"))
				return nil
			}

			for _, b := range blocks {
				rows := make([][]string, len(b.Categories))
				for i, c := range b.Categories {
					rows[i] = []string{c.Name, string(c.Type)}
				}
				fmt.Fprintln(out, cli.TitleStyle.Render(b.Table))
				fmt.Fprintln(out, cli.RenderTable([]string{"Category", "Type"}, rows))
			}
			return nil
		},
	}
}

func guessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <description>...",
		Short: "Suggest categories for descriptions",
		Long: `Score each description against the category names. Pass several quoted
descriptions to guess them in one go.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			suggestions, err := a.engine.Suggest(ctx, args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSuggestions(args, suggestions))
			return nil
		},
	}
}

func renderSuggestions(descriptions []string, suggestions []classify.Suggestion) string {
	rows := make([][]string, len(suggestions))
	for i, s := range suggestions {
		rows[i] = []string{descriptions[i], s.Category, string(s.Type), fmt.Sprint(s.Confidence)}
	}
	return cli.RenderTable([]string{"Description", "Category", "Type", "Score"}, rows)
}

func renameCmd() *cobra.Command {
	var newType string

	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a category in the settings, the ledger and the rules",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var typ model.BudgetType
			if newType != "" {
				typ = model.ParseBudgetType(newType)
			}

			res, report, err := a.engine.Rename(ctx, args[0], args[1], typ)
			if err != nil && !engine.IsInvalidPeriod(err) {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Renamed %q to %q: %d settings entries, %d ledger entries, %d rules",
				args[0], args[1], res.SettingsUpdated, res.LedgerUpdated, res.RulesUpdated)))
			printRefreshReport(out, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&newType, "type", "", "also change the category's budget type")
	return cmd
}
