package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"camprice/internal/config"
	"camprice/internal/exporter"
	"camprice/internal/infrastructure"
	"camprice/internal/pricing"
	"camprice/internal/reports"
	"camprice/pkg/contracts/domain"
)

func main() {
	startDate := flag.String("start", "", "report window start date (YYYY-MM-DD)")
	endDate := flag.String("end", "", "report window end date (YYYY-MM-DD, defaults to today)")
	market := flag.String("market", domain.FilterAll, "market name filter, or 'all'")
	format := flag.String("format", "all", "export format: csv, excel, pdf or all")
	outputDir := flag.String("out", "", "output directory (defaults to configured export directory)")
	fileName := flag.String("name", "", "base file name without extension")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *endDate == "" {
		*endDate = time.Now().UTC().Format(domain.DateLayout)
	}
	if *startDate == "" {
		slog.Error("Missing required -start flag")
		flag.Usage()
		os.Exit(1)
	}
	if *outputDir == "" {
		*outputDir = cfg.Export.OutputDir
	}

	formats, err := resolveFormats(*format)
	if err != nil {
		slog.Error("Invalid format", "error", err)
		os.Exit(1)
	}

	filters := domain.ReportFilters{
		StartDate: *startDate,
		EndDate:   *endDate,
		Market:    *market,
		Product:   domain.FilterAll,
		Category:  domain.FilterAll,
	}
	if _, _, err := filters.Window(); err != nil {
		slog.Error("Invalid report window", "error", err)
		os.Exit(1)
	}

	if *fileName == "" {
		*fileName = fmt.Sprintf("Report_%s_%s", filters.StartDate, filters.EndDate)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ExportTimeout)
	defer cancel()

	client := pricing.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
	aggregator := reports.NewAggregator(logger, reports.NewCategorizer(), reports.UnimplementedChangeSource{})
	service := reports.NewService(client, aggregator, logger)

	data, err := service.Generate(ctx, filters)
	if err != nil {
		slog.Error("Failed to generate report data", "error", err)
		os.Exit(1)
	}
	if data.Empty() {
		slog.Error("No data available for the requested window",
			"start", filters.StartDate, "end", filters.EndDate, "market", filters.Market)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		slog.Error("Failed to create output directory", "dir", *outputDir, "error", err)
		os.Exit(1)
	}

	for _, f := range formats {
		exp, err := exporter.New(f, logger, exporter.Options{Title: cfg.Export.ReportTitle})
		if err != nil {
			slog.Error("Failed to create exporter", "format", f.String(), "error", err)
			os.Exit(1)
		}

		artifact, err := exp.Export(ctx, data, *fileName)
		if err != nil {
			slog.Error("Export failed", "format", f.String(), "error", err)
			os.Exit(1)
		}

		path := filepath.Join(*outputDir, artifact.FileName)
		if err := os.WriteFile(path, artifact.Content, 0o644); err != nil {
			slog.Error("Failed to write report file", "path", path, "error", err)
			os.Exit(1)
		}

		fmt.Printf("Wrote %s (%d bytes)\n", path, len(artifact.Content))
	}
}

// resolveFormats expands the -format flag into concrete export formats.
func resolveFormats(s string) ([]exporter.Format, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return []exporter.Format{exporter.FormatCSV, exporter.FormatExcel, exporter.FormatPDF}, nil
	}

	f, err := exporter.ParseFormat(s)
	if err != nil {
		return nil, err
	}
	return []exporter.Format{f}, nil
}
