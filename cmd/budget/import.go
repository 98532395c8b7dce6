package main

import (
	"fmt"
	"os"

	"github.com/Veraticus/budget-sheets/internal/cli"
	"github.com/Veraticus/budget-sheets/internal/engine"
	"github.com/Veraticus/budget-sheets/internal/importer"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a bank CSV export",
		Long: `Append the rows of a CSV export to the transactions sheet, then reapply saved
rules and recompute the dashboard.

Column positions are zero-based; -1 leaves a column unmapped. The delimiter, header
setting and mapping are remembered for the next import unless --no-save is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("delimiter", "", "field delimiter (default: last used, or ',')")
	cmd.Flags().Bool("header", true, "the first line is a header row")
	cmd.Flags().Int("date-col", 0, "date column")
	cmd.Flags().Int("desc-col", 1, "description column")
	cmd.Flags().Int("debit-col", 2, "debit amount column")
	cmd.Flags().Int("credit-col", 3, "credit amount column")
	cmd.Flags().Int("balance-col", 4, "balance column")
	cmd.Flags().Bool("no-save", false, "do not remember these import settings")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	prefs, err := importer.LoadPreferences(ctx, a.props, nil)
	if err != nil {
		return err
	}
	applyImportFlags(cmd, &prefs)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Parsing rows"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	opts := prefs.Options()
	opts.Progress = func() { _ = bar.Add(1) }

	result, err := importer.Parse(string(data), opts)
	_ = bar.Finish()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Parsed %d rows (%d dropped)", result.Inserted, result.Dropped)))
	if result.Inserted == 0 {
		fmt.Fprintln(out, cli.FormatWarning("Nothing to import"))
		return nil
	}

	report, err := a.engine.AfterImport(ctx, result.Rows)
	if err != nil && !engine.IsInvalidPeriod(err) {
		return err
	}
	if a.dryRun {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Dry run: %d rows were not written", result.Inserted)))
	} else {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d rows into rows %d-%d", report.Inserted, report.FirstRow, report.LastRow)))
	}
	printRefreshReport(out, report.RefreshReport)
	if err != nil {
		fmt.Fprintln(out, cli.FormatWarning(errorMessage(err)+"; dashboard totals were not updated"))
	}

	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		if err := importer.SavePreferences(ctx, a.props, prefs); err != nil {
			return err
		}
	}
	return nil
}

// applyImportFlags overrides saved preferences with flags given on the command line.
func applyImportFlags(cmd *cobra.Command, prefs *importer.Preferences) {
	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		prefs.Delimiter, _ = flags.GetString("delimiter")
	}
	if flags.Changed("header") {
		prefs.HasHeader, _ = flags.GetBool("header")
	}
	for name, target := range map[string]*int{
		"date-col":    &prefs.Mapping.Date,
		"desc-col":    &prefs.Mapping.Description,
		"debit-col":   &prefs.Mapping.Debit,
		"credit-col":  &prefs.Mapping.Credit,
		"balance-col": &prefs.Mapping.Balance,
	} {
		if flags.Changed(name) {
			*target, _ = flags.GetInt(name)
		}
	}
}
