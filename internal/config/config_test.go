package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/budget-sheets/internal/sheets"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("BUDGET_TEST_DIR", "/srv/budget")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/data/budget.db", want: filepath.Join(home, "data/budget.db")},
		{name: "env var", in: "$BUDGET_TEST_DIR/budget.db", want: "/srv/budget/budget.db"},
		{name: "absolute", in: "/tmp/budget.db", want: "/tmp/budget.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDatabasePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local/share/budget/budget.db"), DatabasePath(""))
	assert.Equal(t, "/var/lib/budget.db", DatabasePath("/var/lib/budget.db"))
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	viper.Set("sheets.service_account_path", "/keys/sa.json")
	viper.Set("sheets.spreadsheet_id", "sheet-123")
	viper.Set("sheets.ledger_sheet", "Ledger")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
	assert.Equal(t, "sheet-123", cfg.SpreadsheetID)
	assert.Equal(t, "Ledger", cfg.Layout.LedgerSheet)
	assert.Equal(t, "Settings", cfg.Layout.SettingsSheet)
}

func TestLoadSheetsConfig_EnvFallback(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "token")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "env-sheet")
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "env-sheet", cfg.SpreadsheetID)
}

func TestLoadSheetsConfig_NoAuth(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	for _, k := range []string{
		"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
	} {
		t.Setenv(k, "")
	}
	viper.Set("sheets.spreadsheet_id", "sheet-123")

	_, err := LoadSheetsConfig()
	assert.Error(t, err)
}

func TestLoadSheetsConfig_TokenFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "")
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, sheets.SaveToken(path, &oauth2.Token{RefreshToken: "saved-refresh"}))
	viper.Set("sheets.token_file", path)
	viper.Set("sheets.client_id", "id")
	viper.Set("sheets.client_secret", "secret")
	viper.Set("sheets.spreadsheet_id", "sheet-123")

	assert.Equal(t, path, TokenPath())
	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "saved-refresh", cfg.RefreshToken)
}

func TestLoadSectionMap(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Run("embedded default", func(t *testing.T) {
		viper.Reset()
		sm, err := LoadSectionMap()
		require.NoError(t, err)
		assert.Equal(t, "Daily Living", sm.Fallback())
	})

	t.Run("override file and fallback", func(t *testing.T) {
		viper.Reset()
		path := filepath.Join(t.TempDir(), "sections.yaml")
		content := "fallback: Other\nsections:\n  - name: Food\n    keywords: [Grocer]\n  - name: Other\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		viper.Set("sections.path", path)

		sm, err := LoadSectionMap()
		require.NoError(t, err)
		assert.Equal(t, []string{"Food", "Other"}, sm.Names())
		assert.Equal(t, "Other", sm.Fallback())
	})

	t.Run("unknown fallback", func(t *testing.T) {
		viper.Reset()
		viper.Set("sections.fallback", "Nowhere")
		_, err := LoadSectionMap()
		assert.Error(t, err)
	})
}
