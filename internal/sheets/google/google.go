// Package google mirrors expenses into a Google Sheets worksheet, one row per
// expense keyed by the expense ID in column A.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"expenses/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	DefaultSheetName = "Expenses"

	defaultCacheTTL = 30 * time.Second
	lastColumn      = "G"
)

// Header is written to row 1 of an empty sheet.
var Header = []any{"ID", "Date", "Description", "Amount", "Category", "Payment Method", "Tags"}

var ErrMissingSpreadsheetID = errors.New("missing GOOGLE_SPREADSHEET_ID")

type Config struct {
	SpreadsheetID string
	SheetName     string
	// CredentialsJSON takes precedence over CredentialsFile.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string

	mu                 sync.Mutex
	cachedRowCount     int
	cacheExpiresAt     time.Time
	cacheValidDuration time.Duration
}

// New builds a client authenticated with service account credentials from cfg.
// When opts are given they replace the credential options entirely.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, ErrMissingSpreadsheetID
	}
	if len(opts) == 0 {
		creds, err := credentials(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	name := strings.TrimSpace(cfg.SheetName)
	if name == "" {
		name = DefaultSheetName
	}
	slog.InfoContext(ctx, "Google Sheets mirror ready", "spreadsheet_id", cfg.SpreadsheetID, "sheet", name)

	return &Client{
		svc:                svc,
		spreadsheetID:      cfg.SpreadsheetID,
		sheetName:          name,
		cacheValidDuration: defaultCacheTTL,
	}, nil
}

// credentials resolves service account JSON from the config, then from
// GOOGLE_APPLICATION_CREDENTIALS.
func credentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		slog.DebugContext(ctx, "Reading service account credentials", "path", file)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// EnsureHeader writes the header row when A1 is empty.
func (c *Client) EnsureHeader(ctx context.Context) error {
	rng := fmt.Sprintf("%s!A1:%s1", c.sheetName, lastColumn)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", c.sheetName, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}
	if err := c.writeRow(ctx, 1, Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	c.invalidateRowCache()
	return nil
}

// Append writes e to the next empty row and returns the A1 reference written.
func (c *Client) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	count, err := c.rowCountLocked(ctx)
	if err != nil {
		return "", err
	}
	next := count + 1
	if err := c.writeRow(ctx, next, rowValues(e)); err != nil {
		c.cacheExpiresAt = time.Time{}
		return "", fmt.Errorf("append to %s: %w", c.sheetName, err)
	}
	c.cachedRowCount = next

	return fmt.Sprintf("%s!A%d:%s%d", c.sheetName, next, lastColumn, next), nil
}

// Delete clears the row holding id. A missing row is not an error.
func (c *Client) Delete(ctx context.Context, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	ids, err := c.readIDs(ctx)
	if err != nil {
		return err
	}
	row := 0
	for i, v := range ids {
		if v == id {
			row = i + 1
			break
		}
	}
	if row == 0 {
		slog.DebugContext(ctx, "Expense not present in sheet", "expense_id", id)
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:%s%d", c.sheetName, row, lastColumn, row)
	_, err = c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	c.invalidateRowCache()
	return nil
}

// Update replaces the row for e.ID with a fresh row at the end of the sheet.
func (c *Client) Update(ctx context.Context, e core.Expense) error {
	if err := c.Delete(ctx, e.ID); err != nil {
		return err
	}
	_, err := c.Append(ctx, e)
	return err
}

// IDs lists the expense IDs present in column A, header and blanks excluded.
func (c *Client) IDs(ctx context.Context) ([]string, error) {
	ids, err := c.readIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for i, v := range ids {
		if v == "" || (i == 0 && v == Header[0]) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Client) readIDs(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	ids := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			ids[i] = strings.TrimSpace(fmt.Sprint(row[0]))
		}
	}
	return ids, nil
}

// rowCountLocked returns the used row count, served from cache while fresh.
// Trailing cleared rows are not counted by the API, so they get reused.
func (c *Client) rowCountLocked(ctx context.Context) (int, error) {
	if time.Now().Before(c.cacheExpiresAt) {
		return c.cachedRowCount, nil
	}
	ids, err := c.readIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get sheet dimensions for %s: %w", c.sheetName, err)
	}
	c.cachedRowCount = len(ids)
	c.cacheExpiresAt = time.Now().Add(c.cacheValidDuration)
	return c.cachedRowCount, nil
}

func (c *Client) invalidateRowCache() {
	c.mu.Lock()
	c.cacheExpiresAt = time.Time{}
	c.mu.Unlock()
}

func (c *Client) writeRow(ctx context.Context, row int, values []any) error {
	rng := fmt.Sprintf("%s!A%d:%s%d", c.sheetName, row, lastColumn, row)
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	return err
}

func rowValues(e core.Expense) []any {
	return []any{
		e.ID,
		e.Date.String(),
		e.Description,
		e.Amount.String(),
		e.Category.Label(),
		e.PaymentMethod.Label(),
		strings.Join(e.Tags, ", "),
	}
}
