package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/budget-sheets/internal/catalog"
	"github.com/Veraticus/budget-sheets/internal/classify"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
)

// ResolveStats counts the decisions made during one resolution session.
type ResolveStats struct {
	Accepted int
	Custom   int
	Skipped  int
}

// Resolver walks unknown groups and asks which category each keyword should
// map to. Every answer becomes a rule for the group's keyword and direction.
type Resolver struct {
	reader      *NonBlockingReader
	writer      io.Writer
	progressBar *progressbar.ProgressBar
	stats       ResolveStats
}

// NewResolver creates a resolver reading answers from reader.
func NewResolver(reader io.Reader, writer io.Writer) *Resolver {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Resolver{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Stats returns the decisions made so far.
func (r *Resolver) Stats() ResolveStats {
	return r.stats
}

// Resolve prompts for each group in order and returns the rules to save.
// Quitting or running out of input returns the rules gathered so far.
func (r *Resolver) Resolve(ctx context.Context, groups []model.UnknownGroup, categories []model.CategoryDefinition) ([]model.Rule, error) {
	var out []model.Rule
	if len(groups) == 0 {
		return out, nil
	}
	r.initProgressBar(len(groups))

	for _, g := range groups {
		rule, action, err := r.resolveGroup(ctx, g, categories)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		r.updateProgress()

		switch action {
		case "a":
			r.stats.Accepted++
			out = append(out, rule)
		case "c":
			r.stats.Custom++
			out = append(out, rule)
		case "s":
			r.stats.Skipped++
		case "q":
			return out, nil
		}
	}
	return out, nil
}

func (r *Resolver) resolveGroup(ctx context.Context, g model.UnknownGroup, categories []model.CategoryDefinition) (model.Rule, string, error) {
	suggestion := classify.Guess(g.Keyword, categories)
	hasSuggestion := suggestion.Confidence > 0

	if _, err := fmt.Fprintln(r.writer, RenderBox("Unknown Transaction", formatGroup(g, suggestion, hasSuggestion))); err != nil {
		return model.Rule{}, "", fmt.Errorf("failed to write group box: %w", err)
	}

	valid := []string{"c", "s", "q"}
	if hasSuggestion {
		if _, err := fmt.Fprintf(r.writer, "  [A] Accept suggestion: %s\n", SuccessStyle.Render(suggestion.Category)); err != nil {
			return model.Rule{}, "", err
		}
		valid = append(valid, "a")
	}
	if _, err := fmt.Fprintln(r.writer, "  [C] Choose a category\n  [S] Skip\n  [Q] Save and quit"); err != nil {
		return model.Rule{}, "", err
	}

	choice, err := r.promptChoice(ctx, "Choice", valid)
	if err != nil {
		return model.Rule{}, "", err
	}

	rule := model.Rule{Keyword: g.Keyword, Direction: g.Direction}
	switch choice {
	case "a":
		rule.Category, rule.Type = suggestion.Category, suggestion.Type
	case "c":
		def, ok, err := r.promptCategory(ctx, categories)
		if err != nil {
			return model.Rule{}, "", err
		}
		if !ok {
			return model.Rule{}, "s", nil
		}
		rule.Category, rule.Type = def.Name, def.Type
	}
	return rule, choice, nil
}

func (r *Resolver) promptChoice(ctx context.Context, prompt string, valid []string) (string, error) {
	for {
		if _, err := fmt.Fprint(r.writer, FormatPrompt(prompt)); err != nil {
			return "", err
		}
		line, err := r.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		choice := strings.ToLower(line)
		for _, v := range valid {
			if choice == v {
				return choice, nil
			}
		}
		if _, err := fmt.Fprintln(r.writer, FormatWarning("Please choose one of: "+strings.ToUpper(strings.Join(valid, ", ")))); err != nil {
			return "", err
		}
	}
}

// promptCategory asks until the answer names a catalog category. A blank
// answer gives up on the group.
func (r *Resolver) promptCategory(ctx context.Context, categories []model.CategoryDefinition) (model.CategoryDefinition, bool, error) {
	for {
		if _, err := fmt.Fprint(r.writer, FormatPrompt("Category (blank to skip)")); err != nil {
			return model.CategoryDefinition{}, false, err
		}
		line, err := r.reader.ReadLine(ctx)
		if err != nil {
			return model.CategoryDefinition{}, false, err
		}
		if line == "" {
			return model.CategoryDefinition{}, false, nil
		}
		if def, ok := catalog.Find(categories, line); ok {
			return def, true, nil
		}
		if _, err := fmt.Fprintln(r.writer, FormatWarning(fmt.Sprintf("%q is not in the category list", line))); err != nil {
			return model.CategoryDefinition{}, false, err
		}
	}
}

func formatGroup(g model.UnknownGroup, s classify.Suggestion, hasSuggestion bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Description: %s\n", g.Keyword)
	fmt.Fprintf(&b, "Seen:        %d time(s), direction %s\n", g.Count, g.Direction)
	fmt.Fprintf(&b, "Avg debit:   %s\n", FormatMoney(decimal.NewFromFloat(g.AverageDebit)))
	fmt.Fprintf(&b, "Avg credit:  %s", FormatMoney(decimal.NewFromFloat(g.AverageCredit)))
	if hasSuggestion {
		fmt.Fprintf(&b, "\nSuggestion:  %s (%s, score %d)", s.Category, s.Type, s.Confidence)
	}
	return b.String()
}

func (r *Resolver) initProgressBar(total int) {
	r.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Resolving unknowns...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(r.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func (r *Resolver) updateProgress() {
	if r.progressBar == nil {
		return
	}
	if err := r.progressBar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}
