package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/budget-sheets/internal/catalog"
	"github.com/Veraticus/budget-sheets/internal/cli"
	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/engine"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage saved keyword rules",
		Long: `Rules map an exact transaction description to a category and type. A rule
applies to money going out, coming in, or either direction.`,
	}

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(addRuleCmd())
	cmd.AddCommand(deleteRulesCmd())
	cmd.AddCommand(clearRulesCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			rules, err := a.engine.Rules().GetAll(ctx)
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No rules saved. Use 'budget rules add' or 'budget unknowns resolve'."))
				return nil
			}

			rows := make([][]string, len(rules))
			for i, r := range rules {
				rows[i] = []string{r.Key(), r.Category, string(r.Type)}
			}
			fmt.Fprint(out, cli.RenderTable([]string{"Key", "Category", "Type"}, rows))
			return nil
		},
	}
}

func addRuleCmd() *cobra.Command {
	var (
		direction string
		ruleType  string
	)

	cmd := &cobra.Command{
		Use:   "add <description> <category>",
		Short: "Save a rule and reapply rules",
		Long: `Save a rule for an exact description. The type defaults to the category's type
in the settings tables.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			rule := model.Rule{
				Keyword:   args[0],
				Category:  strings.TrimSpace(args[1]),
				Direction: model.ParseDirection(direction),
				Type:      model.ParseBudgetType(ruleType),
			}
			switch rule.Direction {
			case model.DirectionIn, model.DirectionOut, model.DirectionAny:
			default:
				return common.NewUserError(fmt.Sprintf("unknown direction %q", direction), common.ErrInvalidConfig)
			}

			if rule.Type == "" {
				defs, err := a.engine.Catalog().List(ctx)
				if err != nil {
					return err
				}
				def, ok := catalog.Find(defs, rule.Category)
				if !ok {
					return common.NewUserError(fmt.Sprintf("category %q is not in the settings tables; pass --type to save it anyway", rule.Category), common.ErrNotFound)
				}
				rule.Category, rule.Type = def.Name, def.Type
			}

			report, err := a.engine.SaveRules(ctx, []model.Rule{rule})
			if err != nil && !engine.IsInvalidPeriod(err) {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved %s → %s (%s)", rule.Key(), rule.Category, rule.Type)))
			printRefreshReport(out, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "any", "in, out or any")
	cmd.Flags().StringVar(&ruleType, "type", "", "budget type (default: the category's type)")
	return cmd
}

func deleteRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <KEYWORD|DIRECTION>...",
		Short: "Delete specific rules by key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.engine.Rules().DeleteSpecific(ctx, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %d rule(s)", n)))
			return nil
		},
	}
}

func clearRulesCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return common.NewUserError("refusing to delete every rule without --force", common.ErrEmptyInput)
			}
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.engine.Rules().DeleteAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %d rule(s)", n)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deleting every rule")
	return cmd
}
