package reports

import (
	"context"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camprice/pkg/contracts/domain"
)

func testFilters() domain.ReportFilters {
	return domain.ReportFilters{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		Market:    domain.FilterAll,
		Product:   domain.FilterAll,
		Category:  domain.FilterAll,
	}
}

// sampleRecords is the canonical three-record data set: two rice prices
// at two markets on day one, one cassava price on day two.
func sampleRecords() []domain.PriceRecord {
	return []domain.PriceRecord{
		{PriceID: 1, ProductName: "ស្រូវ", MarketName: "ផ្សារ A", Price: "4000", PriceDate: "2024-01-01"},
		{PriceID: 2, ProductName: "ស្រូវ", MarketName: "ផ្សារ B", Price: "4200", PriceDate: "2024-01-01"},
		{PriceID: 3, ProductName: "ដំឡូង", MarketName: "ផ្សារ A", Price: "1500", PriceDate: "2024-01-02"},
	}
}

func TestAggregator_PriceTrends(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	trends := a.PriceTrends(context.Background(), sampleRecords(), testFilters())

	require.Len(t, trends, 2)
	assert.Equal(t, domain.PriceTrend{Date: "2024-01-01", AveragePrice: 4100, ProductCount: 2}, trends[0])
	assert.Equal(t, domain.PriceTrend{Date: "2024-01-02", AveragePrice: 1500, ProductCount: 1}, trends[1])
}

func TestAggregator_PriceTrends_ChronologicalOrder(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	// Shuffled input dates must come out ascending.
	records := []domain.PriceRecord{
		{PriceID: 1, ProductName: "p", MarketName: "m", Price: "10", PriceDate: "2024-01-20"},
		{PriceID: 2, ProductName: "p", MarketName: "m", Price: "20", PriceDate: "2024-01-05"},
		{PriceID: 3, ProductName: "p", MarketName: "m", Price: "30", PriceDate: "2024-01-12"},
		{PriceID: 4, ProductName: "p", MarketName: "m", Price: "40", PriceDate: "2024-01-01"},
	}

	trends := a.PriceTrends(context.Background(), records, testFilters())

	require.Len(t, trends, 4)
	dates := []string{trends[0].Date, trends[1].Date, trends[2].Date, trends[3].Date}
	assert.Equal(t, []string{"2024-01-01", "2024-01-05", "2024-01-12", "2024-01-20"}, dates)
}

func TestAggregator_MarketStats(t *testing.T) {
	a := NewAggregator(nil, nil, FixedChangeSource(2.5))

	stats := a.MarketStats(context.Background(), sampleRecords(), testFilters())

	require.Len(t, stats, 2)
	assert.Equal(t, domain.MarketStats{MarketName: "ផ្សារ A", ProductCount: 2, AveragePrice: 2750, PriceChange: 2.5}, stats[0])
	assert.Equal(t, domain.MarketStats{MarketName: "ផ្សារ B", ProductCount: 1, AveragePrice: 4200, PriceChange: 2.5}, stats[1])
}

func TestAggregator_MarketStats_DefaultChangeIsZero(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	stats := a.MarketStats(context.Background(), sampleRecords(), testFilters())

	require.NotEmpty(t, stats)
	for _, s := range stats {
		assert.Zero(t, s.PriceChange)
	}
}

func TestAggregator_ProductStats(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	stats := a.ProductStats(context.Background(), sampleRecords(), testFilters())

	require.Len(t, stats, 2)
	assert.Equal(t, domain.ProductStats{
		ProductName:  "ស្រូវ",
		MarketCount:  2,
		AveragePrice: 4100,
		MinPrice:     4000,
		MaxPrice:     4200,
	}, stats[0])
	assert.Equal(t, domain.ProductStats{
		ProductName:  "ដំឡូង",
		MarketCount:  1,
		AveragePrice: 1500,
		MinPrice:     1500,
		MaxPrice:     1500,
	}, stats[1])
}

func TestAggregator_ProductStats_SingleRecordRange(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	records := []domain.PriceRecord{
		{PriceID: 1, ProductName: "p", MarketName: "m", Price: "99.5", PriceDate: "2024-01-10"},
	}

	stats := a.ProductStats(context.Background(), records, testFilters())

	require.Len(t, stats, 1)
	assert.Equal(t, 99.5, stats[0].MinPrice)
	assert.Equal(t, 99.5, stats[0].MaxPrice)
	assert.Equal(t, 99.5, stats[0].AveragePrice)
}

func TestAggregator_CategoryStats(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	stats := a.CategoryStats(context.Background(), sampleRecords(), testFilters())

	require.Len(t, stats, 2)
	assert.Equal(t, domain.CategoryStats{Category: "ស្រូវ", ProductCount: 1, MarketCount: 2, AveragePrice: 4100}, stats[0])
	assert.Equal(t, domain.CategoryStats{Category: "បន្លែ", ProductCount: 1, MarketCount: 1, AveragePrice: 1500}, stats[1])
}

func TestAggregator_CategoryStats_UnknownProducts(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	records := []domain.PriceRecord{
		{PriceID: 1, ProductName: "ត្រីងៀត", MarketName: "m1", Price: "100", PriceDate: "2024-01-01"},
		{PriceID: 2, ProductName: "សាច់ជ្រូក", MarketName: "m2", Price: "300", PriceDate: "2024-01-01"},
	}

	stats := a.CategoryStats(context.Background(), records, testFilters())

	require.Len(t, stats, 1)
	assert.Equal(t, OtherCategory, stats[0].Category)
	assert.Equal(t, 2, stats[0].ProductCount)
	assert.Equal(t, 2, stats[0].MarketCount)
	assert.Equal(t, 200.0, stats[0].AveragePrice)
}

func TestAggregator_Filter_DateWindow(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	records := []domain.PriceRecord{
		{PriceID: 1, ProductName: "p", MarketName: "m", Price: "10", PriceDate: "2023-12-31"},
		{PriceID: 2, ProductName: "p", MarketName: "m", Price: "20", PriceDate: "2024-01-01"},
		{PriceID: 3, ProductName: "p", MarketName: "m", Price: "30", PriceDate: "2024-01-31"},
		{PriceID: 4, ProductName: "p", MarketName: "m", Price: "40", PriceDate: "2024-02-01"},
	}

	trends := a.PriceTrends(context.Background(), records, testFilters())

	// Window boundaries are inclusive on both sides.
	require.Len(t, trends, 2)
	assert.Equal(t, "2024-01-01", trends[0].Date)
	assert.Equal(t, "2024-01-31", trends[1].Date)
}

func TestAggregator_Filter_MarketConstraint(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	filters := testFilters()
	filters.Market = "ផ្សារ A"

	stats := a.MarketStats(context.Background(), sampleRecords(), filters)

	require.Len(t, stats, 1)
	assert.Equal(t, "ផ្សារ A", stats[0].MarketName)
	assert.Equal(t, 2, stats[0].ProductCount)
}

func TestAggregator_Filter_SkipsUnparseableRecords(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	records := append(sampleRecords(),
		domain.PriceRecord{PriceID: 10, ProductName: "p", MarketName: "m", Price: "not-a-number", PriceDate: "2024-01-03"},
		domain.PriceRecord{PriceID: 11, ProductName: "p", MarketName: "m", Price: "50", PriceDate: "03/01/2024"},
	)

	trends := a.PriceTrends(context.Background(), records, testFilters())

	// Only the three well-formed records survive.
	total := 0
	for _, tr := range trends {
		total += tr.ProductCount
	}
	assert.Equal(t, 3, total)
}

func TestAggregator_Filter_InvertedWindowYieldsEmpty(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	filters := testFilters()
	filters.StartDate = "2024-02-01"
	filters.EndDate = "2024-01-01"

	assert.Empty(t, a.PriceTrends(context.Background(), sampleRecords(), filters))
	assert.Empty(t, a.MarketStats(context.Background(), sampleRecords(), filters))
	assert.Empty(t, a.ProductStats(context.Background(), sampleRecords(), filters))
	assert.Empty(t, a.CategoryStats(context.Background(), sampleRecords(), filters))
}

func TestAggregator_Filter_UnparseableWindowYieldsEmpty(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	filters := testFilters()
	filters.StartDate = "last week"

	assert.Empty(t, a.PriceTrends(context.Background(), sampleRecords(), filters))
}

func TestAggregator_AggregateConservation(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	// A few hundred records spread over products, markets and dates.
	// Whole-cent prices keep the expected total exact up to float error.
	rng := rand.New(rand.NewSource(42))
	products := []string{"ស្រូវ", "ដំឡូង", "ខ្ទឹម", "ធុរ៉េន", "ត្រីងៀត", "សាច់ជ្រូក"}
	markets := []string{"ផ្សារ A", "ផ្សារ B", "ផ្សារ C", "ផ្សារ D"}

	var records []domain.PriceRecord
	var total float64
	for i := 0; i < 300; i++ {
		price := float64(rng.Intn(1_000_000)) / 100
		total += price
		records = append(records, domain.PriceRecord{
			PriceID:     i + 1,
			ProductName: products[rng.Intn(len(products))],
			MarketName:  markets[rng.Intn(len(markets))],
			Price:       strconv.FormatFloat(price, 'f', 2, 64),
			PriceDate:   time.Date(2024, 1, 1+rng.Intn(31), 0, 0, 0, 0, time.UTC).Format(domain.DateLayout),
		})
	}

	// Every record lands in exactly one group per view, so summing
	// mean times count across groups must reproduce the grand total.
	var trendSum float64
	for _, tr := range a.PriceTrends(context.Background(), records, testFilters()) {
		trendSum += tr.AveragePrice * float64(tr.ProductCount)
	}
	assert.InDelta(t, total, trendSum, 1e-6)

	var marketSum float64
	for _, m := range a.MarketStats(context.Background(), records, testFilters()) {
		marketSum += m.AveragePrice * float64(m.ProductCount)
	}
	assert.InDelta(t, total, marketSum, 1e-6)
}

func TestAggregator_EmptyInput(t *testing.T) {
	a := NewAggregator(nil, nil, nil)

	assert.Empty(t, a.PriceTrends(context.Background(), nil, testFilters()))
	assert.Empty(t, a.MarketStats(context.Background(), nil, testFilters()))
	assert.Empty(t, a.ProductStats(context.Background(), nil, testFilters()))
	assert.Empty(t, a.CategoryStats(context.Background(), nil, testFilters()))
}
