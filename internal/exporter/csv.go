package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"

	apperrors "camprice/internal/errors"
	"camprice/pkg/contracts/domain"
)

// CSVExporter writes the product statistics view as a flat CSV file.
// The other three views have no CSV representation; callers wanting the
// full report use the Excel or PDF backend.
type CSVExporter struct {
	logger *slog.Logger
}

// Format returns FormatCSV.
func (e *CSVExporter) Format() Format { return FormatCSV }

// Export serializes the product view. Headers are the raw column
// identifiers and numeric values carry no display formatting, so the
// file round-trips cleanly through spreadsheet imports and scripts.
func (e *CSVExporter) Export(ctx context.Context, data domain.ReportData, fileName string) (*Artifact, error) {
	if err := validateInput(data, fileName); err != nil {
		return nil, err
	}
	if len(data.ProductStats) == 0 {
		return nil, apperrors.NewAppValidationError("no product statistics available for CSV export")
	}

	table := productSheet(data.ProductStats)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(table.columns); err != nil {
		return nil, apperrors.NewExportError("write csv header", err)
	}
	for _, row := range table.rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = rawCellValue(cell)
		}
		if err := w.Write(record); err != nil {
			return nil, apperrors.NewExportError("write csv row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.NewExportError("flush csv output", err)
	}

	e.logger.InfoContext(ctx, "csv export complete",
		slog.String("file", fileName),
		slog.Int("rows", len(table.rows)),
		slog.Int("bytes", buf.Len()))

	return &Artifact{
		FileName:    sanitizeFileName(fileName) + ".csv",
		ContentType: "text/csv",
		Content:     buf.Bytes(),
	}, nil
}

// rawCellValue renders a cell without any locale or currency decoration.
func rawCellValue(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
