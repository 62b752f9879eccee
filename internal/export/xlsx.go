package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"expensetracker/internal/core"
)

// XLSXWriter writes expense_report.xlsx into Dir.
type XLSXWriter struct {
	Dir string
}

var _ SpreadsheetWriter = (*XLSXWriter)(nil)

func NewXLSXWriter(dir string) *XLSXWriter {
	return &XLSXWriter{Dir: dir}
}

func (w *XLSXWriter) WriteSpreadsheet(ctx context.Context, expenses []core.Expense) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	f, err := buildWorkbook(expenses)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(w.Dir, SpreadsheetFilename)
	if err := f.SaveAs(path); err != nil {
		return Result{}, fmt.Errorf("save %s: %w", SpreadsheetFilename, err)
	}
	return Result{Location: path, Rows: len(expenses)}, nil
}

// RenderXLSX streams the workbook to out.
func RenderXLSX(out io.Writer, expenses []core.Expense) error {
	f, err := buildWorkbook(expenses)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

var columnWidths = map[string]float64{"A": 16, "B": 12, "C": 20, "D": 12}

func buildWorkbook(expenses []core.Expense) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(SpreadsheetHeader))
	for i, h := range SpreadsheetHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, e := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := SpreadsheetRow(e)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("set width of column %s: %w", col, err)
		}
	}
	return f, nil
}
