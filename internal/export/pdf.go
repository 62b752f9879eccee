package export

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"expensetracker/internal/core"
)

// PDFWriter writes expense_report.pdf into Dir.
type PDFWriter struct {
	Dir string
}

var _ DocumentWriter = (*PDFWriter)(nil)

func NewPDFWriter(dir string) *PDFWriter {
	return &PDFWriter{Dir: dir}
}

func (w *PDFWriter) WriteDocument(ctx context.Context, expenses []core.Expense) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(w.Dir, DocumentFilename)
	f, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("create %s: %w", DocumentFilename, err)
	}
	if err := RenderPDF(f, expenses); err != nil {
		f.Close()
		return Result{}, err
	}
	if err := f.Close(); err != nil {
		return Result{}, fmt.Errorf("close %s: %w", DocumentFilename, err)
	}
	return Result{Location: path, Rows: len(expenses)}, nil
}

// fontFamily is DejaVu Sans Condensed, registered as a UTF-8 font so
// categories outside cp1252 keep their text. Glyphs the font lacks (CJK)
// render as blanks but stay in the text layer.
const fontFamily = "DejaVu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
)

// RenderPDF writes the report: a title line followed by a bordered
// Date/Category/Amount table.
func RenderPDF(out io.Writer, expenses []core.Expense) error {
	return renderPDF(out, expenses, true)
}

func renderPDF(out io.Writer, expenses []core.Expense, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, ReportTitle, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{40, 80, 40}
	pdf.SetFont(fontFamily, "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range DocumentHeader {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 11)
	for _, e := range expenses {
		for i, cell := range DocumentRow(e) {
			align := "L"
			if i == len(widths)-1 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 8, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
