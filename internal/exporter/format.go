// Package exporter builds downloadable report artifacts from aggregated
// report data. One backend per format behind a closed enumeration, so an
// unhandled format is a construction-time error rather than a silent
// fall-through.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "camprice/internal/errors"
	"camprice/pkg/contracts/domain"
)

// Format identifies an export backend.
type Format int

const (
	// FormatCSV is a flat comma-separated file of the product view.
	FormatCSV Format = iota
	// FormatExcel is an .xlsx workbook with one sheet per view.
	FormatExcel
	// FormatPDF is a paginated A4 document with one table per view.
	FormatPDF
)

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatExcel:
		return "excel"
	case FormatPDF:
		return "pdf"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat converts a wire-format string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return 0, fmt.Errorf("unsupported export format %q", s)
	}
}

// Artifact is a fully built downloadable file.
type Artifact struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Exporter serializes report data into one artifact format.
type Exporter interface {
	Format() Format
	Export(ctx context.Context, data domain.ReportData, fileName string) (*Artifact, error)
}

// Options carries cross-backend export settings.
type Options struct {
	// Title is the document heading used by the PDF backend.
	Title string
}

// New returns the backend for the given format.
func New(format Format, logger *slog.Logger, opts Options) (Exporter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Title == "" {
		opts.Title = "Agriculture Report"
	}

	switch format {
	case FormatCSV:
		return &CSVExporter{logger: logger}, nil
	case FormatExcel:
		return &ExcelExporter{logger: logger}, nil
	case FormatPDF:
		return &PDFExporter{logger: logger, title: opts.Title}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// validateInput enforces the shared preconditions of every backend:
// a non-blank file name and at least one row in some view. Violations
// abort the export before any bytes are produced.
func validateInput(data domain.ReportData, fileName string) error {
	if strings.TrimSpace(fileName) == "" {
		return apperrors.NewAppValidationError("file name is required")
	}
	if data.Empty() {
		return apperrors.NewAppValidationError("no data provided for export")
	}
	return nil
}
