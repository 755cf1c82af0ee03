package reports

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"camprice/pkg/contracts/domain"
)

// Aggregator derives the four statistical views from raw price records.
// All computations are pure and synchronous: every call recomputes its
// view from scratch over the records it is given, nothing is cached.
type Aggregator struct {
	logger       *slog.Logger
	categorizer  *Categorizer
	changeSource ChangeSource
}

// NewAggregator creates an aggregator. A nil categorizer gets the default
// keyword table; a nil change source gets the unimplemented placeholder.
func NewAggregator(logger *slog.Logger, categorizer *Categorizer, changeSource ChangeSource) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if categorizer == nil {
		categorizer = NewCategorizer()
	}
	if changeSource == nil {
		changeSource = UnimplementedChangeSource{}
	}
	return &Aggregator{
		logger:       logger,
		categorizer:  categorizer,
		changeSource: changeSource,
	}
}

// filteredRecord is a price record that passed the filter window with its
// price and date already parsed. Parsing happens once, here, so no NaN or
// zero-date value can reach an aggregate.
type filteredRecord struct {
	domain.PriceRecord
	price float64
	date  time.Time
}

// filter applies the shared inclusion predicate: inclusive date window
// plus the market constraint. Records whose price or date fail to parse
// are excluded from every view and surface only as a logged skip count.
// An inverted window (start after end) yields an empty result, not an error.
func (a *Aggregator) filter(ctx context.Context, records []domain.PriceRecord, filters domain.ReportFilters) []filteredRecord {
	start, end, err := filters.Window()
	if err != nil {
		a.logger.WarnContext(ctx, "unparseable filter window, returning empty set",
			slog.String("start", filters.StartDate),
			slog.String("end", filters.EndDate),
			slog.String("error", err.Error()))
		return nil
	}

	out := make([]filteredRecord, 0, len(records))
	skipped := 0

	for _, rec := range records {
		if !filters.MatchesMarket(rec) {
			continue
		}

		date, err := rec.ParseDate()
		if err != nil {
			skipped++
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}

		price, err := rec.ParsePrice()
		if err != nil {
			skipped++
			continue
		}

		out = append(out, filteredRecord{PriceRecord: rec, price: price, date: date})
	}

	if skipped > 0 {
		a.logger.WarnContext(ctx, "excluded records with unparseable price or date",
			slog.Int("skipped", skipped),
			slog.Int("kept", len(out)))
	}

	return out
}

// PriceTrends groups the filtered set by exact date string and computes the
// mean price and record count per date, ordered ascending by calendar date.
func (a *Aggregator) PriceTrends(ctx context.Context, records []domain.PriceRecord, filters domain.ReportFilters) []domain.PriceTrend {
	type group struct {
		total float64
		count int
		date  time.Time
	}

	groups := make(map[string]*group)
	for _, rec := range a.filter(ctx, records, filters) {
		g, ok := groups[rec.PriceDate]
		if !ok {
			g = &group{date: rec.date}
			groups[rec.PriceDate] = g
		}
		g.total += rec.price
		g.count++
	}

	trends := make([]domain.PriceTrend, 0, len(groups))
	for date, g := range groups {
		trends = append(trends, domain.PriceTrend{
			Date:         date,
			AveragePrice: g.total / float64(g.count),
			ProductCount: g.count,
		})
	}

	// Chronological order, not lexicographic: input dates are not
	// guaranteed to be zero-padded ISO strings.
	sort.Slice(trends, func(i, j int) bool {
		return groups[trends[i].Date].date.Before(groups[trends[j].Date].date)
	})

	return trends
}

// MarketStats groups the filtered set by market name and computes the
// record count and mean price per market. PriceChange comes from the
// injected ChangeSource, not from historical data.
func (a *Aggregator) MarketStats(ctx context.Context, records []domain.PriceRecord, filters domain.ReportFilters) []domain.MarketStats {
	type group struct {
		total float64
		count int
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, rec := range a.filter(ctx, records, filters) {
		g, ok := groups[rec.MarketName]
		if !ok {
			g = &group{}
			groups[rec.MarketName] = g
			order = append(order, rec.MarketName)
		}
		g.total += rec.price
		g.count++
	}

	stats := make([]domain.MarketStats, 0, len(groups))
	for _, market := range order {
		g := groups[market]
		stats = append(stats, domain.MarketStats{
			MarketName:   market,
			ProductCount: g.count,
			AveragePrice: g.total / float64(g.count),
			PriceChange:  a.changeSource.PriceChange(market),
		})
	}

	return stats
}

// ProductStats groups the filtered set by product name, tracking the set of
// distinct markets and the full price range per product.
func (a *Aggregator) ProductStats(ctx context.Context, records []domain.PriceRecord, filters domain.ReportFilters) []domain.ProductStats {
	type group struct {
		total   float64
		count   int
		min     float64
		max     float64
		markets map[string]struct{}
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, rec := range a.filter(ctx, records, filters) {
		g, ok := groups[rec.ProductName]
		if !ok {
			g = &group{min: rec.price, max: rec.price, markets: make(map[string]struct{})}
			groups[rec.ProductName] = g
			order = append(order, rec.ProductName)
		}
		g.total += rec.price
		g.count++
		if rec.price < g.min {
			g.min = rec.price
		}
		if rec.price > g.max {
			g.max = rec.price
		}
		g.markets[rec.MarketName] = struct{}{}
	}

	stats := make([]domain.ProductStats, 0, len(groups))
	for _, product := range order {
		g := groups[product]
		stats = append(stats, domain.ProductStats{
			ProductName:  product,
			MarketCount:  len(g.markets),
			AveragePrice: g.total / float64(g.count),
			MinPrice:     g.min,
			MaxPrice:     g.max,
		})
	}

	return stats
}

// CategoryStats resolves each filtered record's category through the
// categorizer and groups by category, tracking distinct products and
// markets plus the mean price per category.
func (a *Aggregator) CategoryStats(ctx context.Context, records []domain.PriceRecord, filters domain.ReportFilters) []domain.CategoryStats {
	type group struct {
		total    float64
		count    int
		products map[string]struct{}
		markets  map[string]struct{}
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, rec := range a.filter(ctx, records, filters) {
		category := a.categorizer.Resolve(rec.ProductName)
		g, ok := groups[category]
		if !ok {
			g = &group{products: make(map[string]struct{}), markets: make(map[string]struct{})}
			groups[category] = g
			order = append(order, category)
		}
		g.total += rec.price
		g.count++
		g.products[rec.ProductName] = struct{}{}
		g.markets[rec.MarketName] = struct{}{}
	}

	stats := make([]domain.CategoryStats, 0, len(groups))
	for _, category := range order {
		g := groups[category]
		stats = append(stats, domain.CategoryStats{
			Category:     category,
			ProductCount: len(g.products),
			MarketCount:  len(g.markets),
			AveragePrice: g.total / float64(g.count),
		})
	}

	return stats
}
