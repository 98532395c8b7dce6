// Package catalog builds the deduplicated category list from the settings tables.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/Veraticus/budget-sheets/internal/service"
)

// Table names in declaration order. Dedup keeps the first occurrence in this order.
const (
	TableIncome         = "Income"
	TableResidence      = "Residence"
	TableTransportation = "Transportation"
	TableDailyLiving    = "Daily Living"
	TableBanking        = "Banking"
	TableHealth         = "Health"
	TableVacation       = "Vacation"
	TableDebt           = "Debt"
	TableSavings        = "Savings"
)

// DefaultTables returns the settings table names in declaration order.
func DefaultTables() []string {
	return []string{
		TableIncome, TableResidence, TableTransportation, TableDailyLiving,
		TableBanking, TableHealth, TableVacation, TableDebt, TableSavings,
	}
}

// Block is one settings table with its cleaned categories.
type Block struct {
	Table      string
	Categories []model.CategoryDefinition
}

// Catalog reads category tables and publishes the combined dropdown list.
type Catalog struct {
	source    service.CatalogSource
	publisher service.CatalogPublisher
	logger    *slog.Logger
}

// New creates a catalog. publisher may be nil when only reads are needed.
func New(source service.CatalogSource, publisher service.CatalogPublisher, logger *slog.Logger) *Catalog {
	return &Catalog{
		source:    source,
		publisher: publisher,
		logger:    common.LoggerOrDefault(logger),
	}
}

// Rebuild reads every table, deduplicates and publishes the combined list.
func (c *Catalog) Rebuild(ctx context.Context) ([]model.CategoryDefinition, error) {
	defs, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(defs) == 0 {
		return nil, common.NewUserError("no categories found in settings tables", common.ErrNoCategories)
	}

	if c.publisher != nil {
		if err := c.publisher.PublishCategoryList(ctx, Names(defs)); err != nil {
			return nil, fmt.Errorf("failed to publish category list: %w", err)
		}
	}

	c.logger.Info("category catalog rebuilt", "categories", len(defs))
	return defs, nil
}

// List returns the flattened, deduplicated catalog without publishing it.
func (c *Catalog) List(ctx context.Context) ([]model.CategoryDefinition, error) {
	raw, err := c.read(ctx)
	if err != nil {
		return nil, err
	}
	return Flatten(raw), nil
}

// Blocks returns the cleaned categories grouped by table, in table order.
// Duplicates are kept inside their own table so the settings layout is visible as-is.
func (c *Catalog) Blocks(ctx context.Context) ([]Block, error) {
	raw, err := c.read(ctx)
	if err != nil {
		return nil, err
	}

	var blocks []Block
	index := make(map[string]int)
	for _, def := range raw {
		def, ok := clean(def)
		if !ok {
			continue
		}
		i, seen := index[def.Table]
		if !seen {
			i = len(blocks)
			index[def.Table] = i
			blocks = append(blocks, Block{Table: def.Table})
		}
		blocks[i].Categories = append(blocks[i].Categories, def)
	}
	return blocks, nil
}

func (c *Catalog) read(ctx context.Context) ([]model.CategoryDefinition, error) {
	if c.source == nil {
		return nil, common.NewUserError("settings tables are not available", common.ErrMissingSource)
	}
	raw, err := c.source.ReadCategoryDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read category tables: %w", err)
	}
	return raw, nil
}

// Flatten cleans raw table rows and keeps the first occurrence of each name,
// compared ignoring case and whitespace.
func Flatten(raw []model.CategoryDefinition) []model.CategoryDefinition {
	seen := make(map[string]struct{}, len(raw))
	out := make([]model.CategoryDefinition, 0, len(raw))

	for _, def := range raw {
		def, ok := clean(def)
		if !ok {
			continue
		}
		key := model.CategoryKey(def.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, def)
	}
	return out
}

// Names returns the category names in catalog order.
func Names(defs []model.CategoryDefinition) []string {
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// Find looks a category up by name, case-insensitively.
func Find(defs []model.CategoryDefinition, name string) (model.CategoryDefinition, bool) {
	key := model.CategoryKey(name)
	for _, d := range defs {
		if model.CategoryKey(d.Name) == key {
			return d, true
		}
	}
	return model.CategoryDefinition{}, false
}

func clean(def model.CategoryDefinition) (model.CategoryDefinition, bool) {
	def.Name = strings.TrimSpace(strings.ReplaceAll(def.Name, "\u00a0", " "))
	if def.Name == "" {
		return def, false
	}
	if def.Type == "" {
		def.Type = model.TypeUnknown
	}
	return def, true
}
