package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/service"
)

// PreferencesKey is the property holding the last used import settings.
const PreferencesKey = "IMPORT_PREFS"

// Preferences are the import settings remembered between runs.
type Preferences struct {
	Delimiter string        `json:"delimiter"`
	Mapping   ColumnMapping `json:"mapping"`
	HasHeader bool          `json:"hasHeader"`
}

// DefaultPreferences is used when nothing readable is stored.
func DefaultPreferences() Preferences {
	return Preferences{Delimiter: ",", HasHeader: true, Mapping: DefaultMapping()}
}

// Options converts the preferences into parse options.
func (p Preferences) Options() Options {
	opts := Options{HasHeader: p.HasHeader, Mapping: p.Mapping, Delimiter: ','}
	if r := []rune(p.Delimiter); len(r) > 0 {
		opts.Delimiter = r[0]
	}
	return opts
}

// LoadPreferences reads saved preferences. A missing or unreadable value
// yields the defaults.
func LoadPreferences(ctx context.Context, store service.PropertyStore, logger *slog.Logger) (Preferences, error) {
	raw, ok, err := store.Get(ctx, PreferencesKey)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to read import preferences: %w", err)
	}
	if !ok {
		return DefaultPreferences(), nil
	}

	prefs := DefaultPreferences()
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		common.LoggerOrDefault(logger).Warn("ignoring unreadable import preferences", "error", err)
		return DefaultPreferences(), nil
	}
	return prefs, nil
}

// SavePreferences stores prefs for the next import.
func SavePreferences(ctx context.Context, store service.PropertyStore, prefs Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode import preferences: %w", err)
	}
	if err := store.Set(ctx, PreferencesKey, string(data)); err != nil {
		return fmt.Errorf("failed to save import preferences: %w", err)
	}
	return nil
}
