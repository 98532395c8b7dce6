package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"github.com/Veraticus/budget-sheets/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	valueInput  = "USER_ENTERED"
	valueRender = "UNFORMATTED_VALUE"
	dateRender  = "SERIAL_NUMBER"
)

// Client implements service.Workbook against a hosted spreadsheet.
type Client struct {
	service    *sheets.Service
	logger     *slog.Logger
	sheetNames []string
	config     Config
	namesMu    sync.Mutex
}

var _ service.Workbook = (*Client)(nil)

// NewClient creates a Google Sheets workbook client.
func NewClient(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		config:  config,
		service: srv,
		logger:  common.LoggerOrDefault(logger),
	}, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

func (c *Client) retryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  c.config.RetryAttempts,
		InitialDelay: c.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

func (c *Client) do(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, op, c.retryOptions())
}

// SheetNames lists the sheets of the spreadsheet. The result is cached for
// the life of the client.
func (c *Client) SheetNames(ctx context.Context) ([]string, error) {
	c.namesMu.Lock()
	defer c.namesMu.Unlock()
	if c.sheetNames != nil {
		return c.sheetNames, nil
	}

	var resp *sheets.Spreadsheet
	err := c.do(ctx, func() error {
		var err error
		resp, err = c.service.Spreadsheets.Get(c.config.SpreadsheetID).
			Fields("sheets.properties").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", c.config.SpreadsheetID, err)
	}

	names := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			names = append(names, s.Properties.Title)
		}
	}
	c.sheetNames = names
	return names, nil
}

func (c *Client) require(ctx context.Context, sheet string) error {
	names, err := c.SheetNames(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == sheet {
			return nil
		}
	}
	return fmt.Errorf("%w: sheet %q", common.ErrMissingSource, sheet)
}

func (c *Client) get(ctx context.Context, a1 string) (Grid, error) {
	var resp *sheets.ValueRange
	err := c.do(ctx, func() error {
		var err error
		resp, err = c.service.Spreadsheets.Values.Get(c.config.SpreadsheetID, a1).
			ValueRenderOption(valueRender).
			DateTimeRenderOption(dateRender).
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a1, err)
	}
	return resp.Values, nil
}

func (c *Client) batchUpdate(ctx context.Context, data []*sheets.ValueRange) error {
	if len(data) == 0 {
		return nil
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInput,
		Data:             data,
	}
	return c.do(ctx, func() error {
		_, err := c.service.Spreadsheets.Values.BatchUpdate(c.config.SpreadsheetID, req).Context(ctx).Do()
		return err
	})
}

// ReadLedger implements service.LedgerStore.
func (c *Client) ReadLedger(ctx context.Context) (model.Ledger, error) {
	l := c.config.Layout
	if err := c.require(ctx, l.LedgerSheet); err != nil {
		return nil, err
	}
	values, err := c.get(ctx, l.LedgerRange())
	if err != nil {
		return nil, err
	}
	ledger := DecodeLedger(values, l)
	c.logger.Debug("read ledger", "rows", len(ledger))
	return ledger, nil
}

// WriteLedger writes back the category and type columns of every row.
func (c *Client) WriteLedger(ctx context.Context, ledger model.Ledger) error {
	l := c.config.Layout
	if err := c.require(ctx, l.LedgerSheet); err != nil {
		return err
	}
	if err := c.batchUpdate(ctx, EncodeClassifications(ledger, l)); err != nil {
		return fmt.Errorf("failed to write ledger classifications: %w", err)
	}
	c.logger.Debug("wrote ledger classifications", "rows", len(ledger))
	return nil
}

// AppendLedger implements service.LedgerStore.
func (c *Client) AppendLedger(ctx context.Context, rows []model.LedgerRow) (int, int, error) {
	l := c.config.Layout
	if err := c.require(ctx, l.LedgerSheet); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}

	existing, err := c.get(ctx, l.LedgerRange())
	if err != nil {
		return 0, 0, err
	}

	first := l.LedgerFirstRow + len(existing)
	last := first + len(rows) - 1
	vr := &sheets.ValueRange{
		Range:  RowRange(l.LedgerSheet, first, 0, last, l.LedgerWidth-1),
		Values: EncodeLedger(rows, l),
	}
	if err := c.batchUpdate(ctx, []*sheets.ValueRange{vr}); err != nil {
		return 0, 0, fmt.Errorf("failed to append ledger rows: %w", err)
	}

	c.logger.Info("appended ledger rows", "first_row", first, "last_row", last)
	return first, last, nil
}

// ReadCategoryDefinitions implements service.CatalogSource.
func (c *Client) ReadCategoryDefinitions(ctx context.Context) ([]model.CategoryDefinition, error) {
	l := c.config.Layout
	if err := c.require(ctx, l.SettingsSheet); err != nil {
		return nil, err
	}
	values, err := c.get(ctx, l.SettingsRange())
	if err != nil {
		return nil, err
	}
	return DecodeCategoryTables(values, l), nil
}

// PublishCategoryList rewrites the helper column and points the named range at it.
func (c *Client) PublishCategoryList(ctx context.Context, names []string) error {
	l := c.config.Layout
	if err := c.require(ctx, l.SettingsSheet); err != nil {
		return err
	}

	err := c.do(ctx, func() error {
		_, err := c.service.Spreadsheets.Values.Clear(c.config.SpreadsheetID, l.CategoryListRange(),
			&sheets.ClearValuesRequest{}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear category list: %w", err)
	}
	if len(names) == 0 {
		return nil
	}

	last := l.SettingsFirstRow + len(names) - 1
	vr := &sheets.ValueRange{
		Range:  RowRange(l.SettingsSheet, l.SettingsFirstRow, l.CategoryListColumn, last, l.CategoryListColumn),
		Values: EncodeCategoryList(names),
	}
	if err := c.batchUpdate(ctx, []*sheets.ValueRange{vr}); err != nil {
		return fmt.Errorf("failed to write category list: %w", err)
	}

	return c.ensureNamedRange(ctx, len(names))
}

func (c *Client) ensureNamedRange(ctx context.Context, rows int) error {
	l := c.config.Layout

	var ss *sheets.Spreadsheet
	err := c.do(ctx, func() error {
		var err error
		ss, err = c.service.Spreadsheets.Get(c.config.SpreadsheetID).
			Fields("namedRanges", "sheets.properties").Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to read named ranges: %w", err)
	}

	var sheetID int64 = -1
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == l.SettingsSheet {
			sheetID = s.Properties.SheetId
		}
	}
	if sheetID < 0 {
		return fmt.Errorf("%w: sheet %q", common.ErrMissingSource, l.SettingsSheet)
	}

	grid := &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(l.SettingsFirstRow - 1),
		EndRowIndex:      int64(l.SettingsFirstRow - 1 + rows),
		StartColumnIndex: int64(l.CategoryListColumn),
		EndColumnIndex:   int64(l.CategoryListColumn + 1),
	}

	var req *sheets.Request
	for _, nr := range ss.NamedRanges {
		if nr.Name == l.CategoryListName {
			req = &sheets.Request{UpdateNamedRange: &sheets.UpdateNamedRangeRequest{
				NamedRange: &sheets.NamedRange{NamedRangeId: nr.NamedRangeId, Name: nr.Name, Range: grid},
				Fields:     "range",
			}}
			break
		}
	}
	if req == nil {
		req = &sheets.Request{AddNamedRange: &sheets.AddNamedRangeRequest{
			NamedRange: &sheets.NamedRange{Name: l.CategoryListName, Range: grid},
		}}
	}

	err = c.do(ctx, func() error {
		_, err := c.service.Spreadsheets.BatchUpdate(c.config.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{req},
		}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update named range %s: %w", l.CategoryListName, err)
	}
	return nil
}

// RenameCategory implements service.SettingsEditor.
func (c *Client) RenameCategory(ctx context.Context, oldName, newName string, newType model.BudgetType) (int, error) {
	l := c.config.Layout
	if err := c.require(ctx, l.SettingsSheet); err != nil {
		return 0, err
	}
	values, err := c.get(ctx, l.SettingsRange())
	if err != nil {
		return 0, err
	}
	updates, count := RenameInCategoryTables(values, l, oldName, newName, newType)
	if err := c.batchUpdate(ctx, updates); err != nil {
		return 0, fmt.Errorf("failed to rename category in settings: %w", err)
	}
	return count, nil
}

// ReadPeriodSelection implements service.PeriodInput.
func (c *Client) ReadPeriodSelection(ctx context.Context) (string, int, error) {
	l := c.config.Layout
	if err := c.require(ctx, l.OverviewSheet); err != nil {
		return "", 0, err
	}

	var resp *sheets.BatchGetValuesResponse
	err := c.do(ctx, func() error {
		var err error
		resp, err = c.service.Spreadsheets.Values.BatchGet(c.config.SpreadsheetID).
			Ranges(l.PeriodRange()...).
			ValueRenderOption(valueRender).
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to read period selection: %w", err)
	}

	var yearCell, periodCell any
	if len(resp.ValueRanges) == 2 {
		yearCell = firstValue(resp.ValueRanges[0].Values)
		periodCell = firstValue(resp.ValueRanges[1].Values)
	}
	label, year := DecodePeriodSelection(yearCell, periodCell, time.Now())
	return label, year, nil
}

// WriteTotals implements service.TotalsWriter.
func (c *Client) WriteTotals(ctx context.Context, totals model.Totals) error {
	l := c.config.Layout
	if err := c.require(ctx, l.OverviewSheet); err != nil {
		return err
	}
	if err := c.batchUpdate(ctx, EncodeTotals(totals, l)); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}
	c.logger.Info("wrote dashboard totals",
		"income", totals.Income.StringFixed(2),
		"spending", totals.Spending.StringFixed(2))
	return nil
}
