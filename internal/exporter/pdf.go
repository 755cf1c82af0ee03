package exporter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-pdf/fpdf"

	apperrors "camprice/internal/errors"
	"camprice/pkg/contracts/domain"
)

// PDFExporter renders all four views as styled tables in a paginated
// A4 document.
type PDFExporter struct {
	logger *slog.Logger
	title  string
}

// Format returns FormatPDF.
func (e *PDFExporter) Format() Format { return FormatPDF }

// Export builds the document: title page header, one section per
// non-empty view, page numbers in the footer. Core fonts only, so cell
// text is reduced to printable ASCII before rendering.
func (e *PDFExporter) Export(ctx context.Context, data domain.ReportData, fileName string) (*Artifact, error) {
	if err := validateInput(data, fileName); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(34, 197, 94)
	pdf.CellFormat(0, 10, cleanString(e.title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, s := range reportSheets(data) {
		if len(s.rows) == 0 {
			continue
		}
		e.writeSection(pdf, s)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewExportError("serialize pdf document", err)
	}

	e.logger.InfoContext(ctx, "pdf export complete",
		slog.String("file", fileName),
		slog.Int("pages", pdf.PageCount()),
		slog.Int("bytes", buf.Len()))

	return &Artifact{
		FileName:    sanitizeFileName(fileName) + ".pdf",
		ContentType: "application/pdf",
		Content:     buf.Bytes(),
	}, nil
}

// writeSection renders one view as a section heading plus a grid table
// with a repeated header row after each page break.
func (e *PDFExporter) writeSection(pdf *fpdf.Fpdf, s sheet) {
	const (
		rowHeight     = 7.0
		breakMarginMM = 50.0
	)

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	cols := orderedColumns(s.columns)
	pos := make(map[string]int, len(s.columns))
	for i, col := range s.columns {
		pos[col] = i
	}
	colWidth := usable / float64(len(cols))

	if pdf.GetY() > pageHeight-breakMarginMM {
		pdf.AddPage()
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 8, s.title, "", 1, "L", false, 0, "")
	pdf.Ln(1)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFillColor(34, 197, 94)
		pdf.SetDrawColor(200, 200, 200)
		for _, col := range cols {
			pdf.CellFormat(colWidth, rowHeight, formatColumnName(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	header()

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)

	for i, row := range s.rows {
		if pdf.GetY() > pageHeight-breakMarginMM {
			pdf.AddPage()
			header()
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(0, 0, 0)
		}

		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for _, col := range cols {
			pdf.CellFormat(colWidth, rowHeight, formatCellText(row[pos[col]], col), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
}
