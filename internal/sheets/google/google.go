// Package google mirrors the expense list into a Google Sheets tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/log"
)

// Config selects the target spreadsheet and the service account used to
// reach it. ServiceAccountJSON wins over ServiceAccountFile.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var _ export.SpreadsheetWriter = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing google spreadsheet id")
	}
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName, logger), nil
}

// NewWithService wraps an existing service, e.g. one pointed at a test server.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string, logger *log.Logger) *Client {
	if sheetName == "" {
		sheetName = export.SheetName
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentSheets),
	}
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		return []byte(cfg.ServiceAccountJSON), nil
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set google_service_account_json or google_service_account_file)")
	}
}

// WriteSpreadsheet replaces the tab contents with a header row and one row
// per expense.
func (c *Client) WriteSpreadsheet(ctx context.Context, expenses []core.Expense) (export.Result, error) {
	if c.svc == nil {
		return export.Result{}, errors.New("sheets service not initialized")
	}

	clearRange := a1Range(c.sheetName, "A:D")
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return export.Result{}, fmt.Errorf("clear %s: %w", clearRange, err)
	}

	writeRange := a1Range(c.sheetName, "A1")
	vr := &gsheet.ValueRange{Values: toValues(expenses)}
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return export.Result{}, fmt.Errorf("update %s: %w", writeRange, err)
	}

	location := writeRange
	if resp != nil && resp.UpdatedRange != "" {
		location = resp.UpdatedRange
	}
	c.logger.InfoContext(ctx, "Expenses mirrored to sheet",
		log.FieldRows, len(expenses),
		log.FieldDestination, location)
	return export.Result{Location: location, Rows: len(expenses)}, nil
}

// a1Range quotes the tab name so names with spaces or punctuation stay
// valid A1 notation. Embedded quotes are doubled.
func a1Range(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}

func toValues(expenses []core.Expense) [][]interface{} {
	values := make([][]interface{}, 0, len(expenses)+1)
	header := make([]interface{}, len(export.SpreadsheetHeader))
	for i, h := range export.SpreadsheetHeader {
		header[i] = h
	}
	values = append(values, header)
	for _, e := range expenses {
		values = append(values, export.SpreadsheetRow(e))
	}
	return values
}
