package domain

// PriceTrend is the per-date aggregation view: one entry per distinct
// date in the filtered set, ordered ascending by calendar date.
type PriceTrend struct {
	Date         string  `json:"date"`
	AveragePrice float64 `json:"averagePrice"`
	ProductCount int     `json:"productCount"`
}

// MarketStats is the per-market aggregation view. PriceChange is supplied
// by an injected source, not derived from historical data.
type MarketStats struct {
	MarketName   string  `json:"marketName"`
	ProductCount int     `json:"productCount"`
	AveragePrice float64 `json:"averagePrice"`
	PriceChange  float64 `json:"priceChange"`
}

// ProductStats is the per-product aggregation view.
type ProductStats struct {
	ProductName  string  `json:"productName"`
	MarketCount  int     `json:"marketCount"`
	AveragePrice float64 `json:"averagePrice"`
	MinPrice     float64 `json:"minPrice"`
	MaxPrice     float64 `json:"maxPrice"`
}

// CategoryStats is the per-category aggregation view, with the category
// resolved by keyword classification of the product name.
type CategoryStats struct {
	Category     string  `json:"category"`
	ProductCount int     `json:"productCount"`
	MarketCount  int     `json:"marketCount"`
	AveragePrice float64 `json:"averagePrice"`
}

// ReportData bundles the four derived views produced by one report run.
// Instances live only for the duration of a report view or export.
type ReportData struct {
	PriceTrends   []PriceTrend   `json:"priceTrends"`
	MarketStats   []MarketStats  `json:"marketStats"`
	ProductStats  []ProductStats `json:"productStats"`
	CategoryStats []CategoryStats `json:"categoryStats"`
}

// Empty reports whether every view has zero rows.
func (d ReportData) Empty() bool {
	return len(d.PriceTrends) == 0 && len(d.MarketStats) == 0 &&
		len(d.ProductStats) == 0 && len(d.CategoryStats) == 0
}
