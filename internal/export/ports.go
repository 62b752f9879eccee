package export

import (
	"context"
	"errors"

	"expensetracker/internal/core"
)

const (
	DocumentFilename    = "expense_report.pdf"
	SpreadsheetFilename = "expense_report.xlsx"
	ReportTitle         = "Monthly Expense Report"
	SheetName           = "Expenses"
)

// ErrNoWriter is returned when an export is requested but no writer was
// configured for that format.
var ErrNoWriter = errors.New("no export writer configured")

// Result describes a completed export.
type Result struct {
	Location string `json:"location"`
	Rows     int    `json:"rows"`
}

// DocumentWriter produces a printable report of the given expenses.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, expenses []core.Expense) (Result, error)
}

// SpreadsheetWriter produces one row per expense under a field-name header.
type SpreadsheetWriter interface {
	WriteSpreadsheet(ctx context.Context, expenses []core.Expense) (Result, error)
}
