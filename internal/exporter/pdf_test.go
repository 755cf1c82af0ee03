package exporter

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camprice/pkg/contracts/domain"
)

func TestPDFExporter_Export(t *testing.T) {
	exp, err := New(FormatPDF, nil, Options{Title: "Agriculture Report"})
	require.NoError(t, err)

	artifact, err := exp.Export(context.Background(), sampleReport(), "Report_2024-01-01_2024-01-31")
	require.NoError(t, err)

	assert.Equal(t, "Report_2024-01-01_2024-01-31.pdf", artifact.FileName)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	require.NotEmpty(t, artifact.Content)
	assert.Equal(t, "%PDF-", string(artifact.Content[:5]))
}

func TestPDFExporter_Export_PartialViews(t *testing.T) {
	exp, err := New(FormatPDF, nil, Options{})
	require.NoError(t, err)

	data := domain.ReportData{
		CategoryStats: []domain.CategoryStats{
			{Category: "Rice", ProductCount: 1, MarketCount: 1, AveragePrice: 4000},
		},
	}

	artifact, err := exp.Export(context.Background(), data, "partial")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(artifact.Content[:5]))
}

func TestPDFExporter_Export_ManyRowsPaginates(t *testing.T) {
	exp, err := New(FormatPDF, nil, Options{})
	require.NoError(t, err)

	small, err := exp.Export(context.Background(), sampleReport(), "small")
	require.NoError(t, err)

	big := domain.ReportData{}
	for i := 0; i < 200; i++ {
		big.ProductStats = append(big.ProductStats, domain.ProductStats{
			ProductName:  fmt.Sprintf("Product %03d", i),
			MarketCount:  1 + i%5,
			AveragePrice: float64(1000 + i),
			MinPrice:     float64(900 + i),
			MaxPrice:     float64(1100 + i),
		})
	}

	large, err := exp.Export(context.Background(), big, "large")
	require.NoError(t, err)

	// 200 rows cannot fit on one A4 page.
	assert.Greater(t, len(large.Content), len(small.Content))
}
