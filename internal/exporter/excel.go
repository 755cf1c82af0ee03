package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "camprice/internal/errors"
	"camprice/pkg/contracts/domain"
)

// ExcelExporter writes all four views into an .xlsx workbook, one sheet
// per non-empty view.
type ExcelExporter struct {
	logger *slog.Logger
}

// excelStyles holds the style IDs registered once per workbook.
type excelStyles struct {
	header   int
	date     int
	currency int
	percent  int
}

// Format returns FormatExcel.
func (e *ExcelExporter) Format() Format { return FormatExcel }

// Export builds the workbook. Empty views are skipped rather than
// producing blank sheets; headers get display labels and priority
// ordering, data columns get typed values with number formats so the
// spreadsheet can sort and recalculate them.
func (e *ExcelExporter) Export(ctx context.Context, data domain.ReportData, fileName string) (*Artifact, error) {
	if err := validateInput(data, fileName); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, apperrors.NewExportError("register workbook styles", err)
	}

	written := 0
	for _, s := range reportSheets(data) {
		if len(s.rows) == 0 {
			continue
		}
		if err := e.writeSheet(f, s, styles, written == 0); err != nil {
			return nil, apperrors.NewExportError(fmt.Sprintf("write sheet %q", s.title), err)
		}
		written++
	}
	if written == 0 {
		return nil, apperrors.NewAppValidationError("no data provided for export")
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewExportError("serialize workbook", err)
	}

	e.logger.InfoContext(ctx, "excel export complete",
		slog.String("file", fileName),
		slog.Int("sheets", written),
		slog.Int("bytes", buf.Len()))

	return &Artifact{
		FileName:    sanitizeFileName(fileName) + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"22C55E"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return excelStyles{}, err
	}

	dateFmt := "yyyy-mm-dd"
	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return excelStyles{}, err
	}

	currencyFmt := "$#,##0.00"
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return excelStyles{}, err
	}

	percentFmt := "0.00%"
	percent, err := f.NewStyle(&excelize.Style{CustomNumFmt: &percentFmt})
	if err != nil {
		return excelStyles{}, err
	}

	return excelStyles{header: header, date: date, currency: currency, percent: percent}, nil
}

// writeSheet renders one view table. The first written sheet takes over
// the workbook's default sheet so no blank "Sheet1" survives.
func (e *ExcelExporter) writeSheet(f *excelize.File, s sheet, styles excelStyles, first bool) error {
	name := safeSheetName(s.title)

	if first {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	cols := orderedColumns(s.columns)
	pos := make(map[string]int, len(s.columns))
	for i, col := range s.columns {
		pos[col] = i
	}

	widths := make([]int, len(cols))
	for ci, col := range cols {
		label := formatColumnName(col)
		widths[ci] = len(label)

		cell, err := excelize.CoordinatesToCellName(ci+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, label); err != nil {
			return err
		}
	}

	for ri, row := range s.rows {
		for ci, col := range cols {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return err
			}
			if err := e.writeCell(f, name, cell, row[pos[col]], col, styles); err != nil {
				return err
			}

			if w := len(fmt.Sprintf("%v", row[pos[col]])); w > widths[ci] {
				widths[ci] = w
			}
		}
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", lastHeader, styles.header); err != nil {
		return err
	}

	for ci := range cols {
		colName, err := excelize.ColumnNumberToName(ci + 1)
		if err != nil {
			return err
		}
		width := float64(clampWidth(widths[ci] + 2))
		if err := f.SetColWidth(name, colName, colName, width); err != nil {
			return err
		}
	}

	lastCell, err := excelize.CoordinatesToCellName(len(cols), len(s.rows)+1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(name, "A1:"+lastCell, nil); err != nil {
		return err
	}

	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// writeCell writes one typed value. Dates become native date cells,
// percentage columns store the fraction behind a percent format, money
// columns get a currency format.
func (e *ExcelExporter) writeCell(f *excelize.File, sheetName, cell string, value any, col string, styles excelStyles) error {
	if s, ok := value.(string); ok && isDateColumn(col) {
		if d, err := time.ParseInLocation(domain.DateLayout, s, time.UTC); err == nil {
			if err := f.SetCellValue(sheetName, cell, d); err != nil {
				return err
			}
			return f.SetCellStyle(sheetName, cell, cell, styles.date)
		}
	}

	if v, ok := value.(float64); ok {
		switch {
		case isPercentColumn(col):
			if err := f.SetCellValue(sheetName, cell, v/100); err != nil {
				return err
			}
			return f.SetCellStyle(sheetName, cell, cell, styles.percent)
		case isCurrencyColumn(col):
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
			return f.SetCellStyle(sheetName, cell, cell, styles.currency)
		}
	}

	return f.SetCellValue(sheetName, cell, value)
}

// clampWidth keeps column widths inside a readable band.
func clampWidth(w int) int {
	const minWidth, maxWidth = 10, 50
	if w < minWidth {
		return minWidth
	}
	if w > maxWidth {
		return maxWidth
	}
	return w
}
