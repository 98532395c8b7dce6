package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/budget-sheets/internal/config"
	"github.com/Veraticus/budget-sheets/internal/engine"
	"github.com/Veraticus/budget-sheets/internal/service"
	"github.com/Veraticus/budget-sheets/internal/sheets"
	"github.com/Veraticus/budget-sheets/internal/storage"
	"github.com/spf13/viper"
)

// openWorkbook connects to the configured spreadsheet. Tests replace it.
var openWorkbook = func(ctx context.Context, logger *slog.Logger) (service.Workbook, sheets.Layout, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, sheets.Layout{}, fmt.Errorf("failed to load sheets config: %w", err)
	}
	client, err := sheets.NewClient(ctx, *cfg, logger)
	if err != nil {
		return nil, sheets.Layout{}, err
	}
	return client, cfg.Layout, nil
}

// app bundles what a command needs.
type app struct {
	engine   *engine.Engine
	props    service.PropertyStore
	workbook service.Workbook
	layout   sheets.Layout
	store    *storage.SQLiteStorage
	dryRun   bool
}

func openApp(ctx context.Context) (*app, error) {
	logger := slog.Default()

	wb, layout, err := openWorkbook(ctx, logger)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, config.DatabasePath(viper.GetString("database.path")))
	if err != nil {
		return nil, err
	}

	a := &app{workbook: wb, layout: layout, store: store, props: store}
	if viper.GetBool("dry_run") {
		snapshot, err := store.List(ctx)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		a.props = storage.NewMemoryStore(snapshot)
		a.workbook = sheets.NewDryRun(wb, logger)
		a.dryRun = true
	}

	sections, err := config.LoadSectionMap()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a.engine, err = engine.New(engine.Deps{
		Workbook:       a.workbook,
		Properties:     a.props,
		Sections:       sections,
		RequiredSheets: []string{layout.LedgerSheet, layout.SettingsSheet, layout.OverviewSheet},
		Logger:         logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}
