package exporter

import "camprice/pkg/contracts/domain"

// sheet is the format-independent tabular form of one aggregation view:
// identifier column keys in declaration order plus untyped row values.
// Backends apply their own labeling, ordering and value formatting on top.
type sheet struct {
	title   string
	columns []string
	rows    [][]any
}

// reportSheets flattens the four views into tables, in the fixed
// presentation order shared by the Excel and PDF backends.
func reportSheets(data domain.ReportData) []sheet {
	trendRows := make([][]any, 0, len(data.PriceTrends))
	for _, t := range data.PriceTrends {
		trendRows = append(trendRows, []any{t.Date, t.AveragePrice, t.ProductCount})
	}

	marketRows := make([][]any, 0, len(data.MarketStats))
	for _, m := range data.MarketStats {
		marketRows = append(marketRows, []any{m.MarketName, m.ProductCount, m.AveragePrice, m.PriceChange})
	}

	productRows := productSheet(data.ProductStats).rows

	categoryRows := make([][]any, 0, len(data.CategoryStats))
	for _, c := range data.CategoryStats {
		categoryRows = append(categoryRows, []any{c.Category, c.ProductCount, c.MarketCount, c.AveragePrice})
	}

	return []sheet{
		{
			title:   "Price Trends",
			columns: []string{"date", "averagePrice", "productCount"},
			rows:    trendRows,
		},
		{
			title:   "Market Statistics",
			columns: []string{"marketName", "productCount", "averagePrice", "priceChange"},
			rows:    marketRows,
		},
		{
			title:   "Product Statistics",
			columns: []string{"productName", "marketCount", "averagePrice", "minPrice", "maxPrice"},
			rows:    productRows,
		},
		{
			title:   "Category Statistics",
			columns: []string{"category", "productCount", "marketCount", "averagePrice"},
			rows:    categoryRows,
		},
	}
}

// productSheet builds just the product view table, the sole content of
// the CSV backend.
func productSheet(stats []domain.ProductStats) sheet {
	rows := make([][]any, 0, len(stats))
	for _, p := range stats {
		rows = append(rows, []any{p.ProductName, p.MarketCount, p.AveragePrice, p.MinPrice, p.MaxPrice})
	}
	return sheet{
		title:   "Product Statistics",
		columns: []string{"productName", "marketCount", "averagePrice", "minPrice", "maxPrice"},
		rows:    rows,
	}
}
