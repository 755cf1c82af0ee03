package exporter

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"camprice/pkg/contracts/domain"
)

func TestExcelExporter_Export(t *testing.T) {
	exp, err := New(FormatExcel, nil, Options{})
	require.NoError(t, err)

	artifact, err := exp.Export(context.Background(), sampleReport(), "Report_2024-01-01_2024-01-31")
	require.NoError(t, err)

	assert.Equal(t, "Report_2024-01-01_2024-01-31.xlsx", artifact.FileName)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", artifact.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Price Trends",
		"Market Statistics",
		"Product Statistics",
		"Category Statistics",
	}, f.GetSheetList())

	// Header row carries display labels in priority order.
	rows, err := f.GetRows("Product Statistics")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Product Name", "Average Price", "Market Count", "Max Price", "Min Price"}, rows[0])
	assert.Equal(t, "Rice", rows[1][0])
	assert.Equal(t, "Cassava", rows[2][0])

	trendRows, err := f.GetRows("Price Trends")
	require.NoError(t, err)
	assert.Len(t, trendRows, 3)

	marketRows, err := f.GetRows("Market Statistics")
	require.NoError(t, err)
	assert.Len(t, marketRows, 3)
}

func TestExcelExporter_Export_HeaderStyle(t *testing.T) {
	exp, err := New(FormatExcel, nil, Options{})
	require.NoError(t, err)

	artifact, err := exp.Export(context.Background(), sampleReport(), "styled")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Content))
	require.NoError(t, err)
	defer f.Close()

	styleID, err := f.GetCellStyle("Price Trends", "A1")
	require.NoError(t, err)

	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.Equal(t, "pattern", style.Fill.Type)
	require.NotEmpty(t, style.Fill.Color)
	// Stored colors may round-trip with an alpha prefix.
	assert.True(t, strings.HasSuffix(style.Fill.Color[0], "22C55E"), "got fill color %q", style.Fill.Color[0])
}

func TestExcelExporter_Export_SkipsEmptyViews(t *testing.T) {
	exp, err := New(FormatExcel, nil, Options{})
	require.NoError(t, err)

	data := domain.ReportData{
		ProductStats: []domain.ProductStats{
			{ProductName: "Rice", MarketCount: 1, AveragePrice: 100, MinPrice: 100, MaxPrice: 100},
		},
	}

	artifact, err := exp.Export(context.Background(), data, "partial")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Product Statistics"}, f.GetSheetList())
}

func TestExcelExporter_Export_DateCells(t *testing.T) {
	exp, err := New(FormatExcel, nil, Options{})
	require.NoError(t, err)

	artifact, err := exp.Export(context.Background(), sampleReport(), "dates")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Content))
	require.NoError(t, err)
	defer f.Close()

	// Dates are stored as real date cells rendered through the
	// yyyy-mm-dd number format, not as strings.
	got, err := f.GetCellValue("Price Trends", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got)
}

func TestExcelExporter_Export_FreezeAndFilter(t *testing.T) {
	exp, err := New(FormatExcel, nil, Options{})
	require.NoError(t, err)

	artifact, err := exp.Export(context.Background(), sampleReport(), "panes")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Content))
	require.NoError(t, err)
	defer f.Close()

	panes, err := f.GetPanes("Product Statistics")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
	assert.Equal(t, "A2", panes.TopLeftCell)
}
