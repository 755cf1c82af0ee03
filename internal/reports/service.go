package reports

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"camprice/pkg/contracts/domain"
)

// PriceLister fetches the full price record set from the backend.
type PriceLister interface {
	ListPrices(ctx context.Context) ([]domain.PriceRecord, error)
}

// Service produces report views and full report data sets.
//
// Each view call fetches its own snapshot of the record set; a full
// report fans the four view computations out concurrently and joins
// once all complete. A single failed fetch aborts the whole report.
type Service struct {
	prices     PriceLister
	aggregator *Aggregator
	logger     *slog.Logger
}

// NewService creates a report service.
func NewService(prices PriceLister, aggregator *Aggregator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if aggregator == nil {
		aggregator = NewAggregator(logger, nil, nil)
	}
	return &Service{
		prices:     prices,
		aggregator: aggregator,
		logger:     logger,
	}
}

// PriceTrends returns the per-date view for the given filters.
func (s *Service) PriceTrends(ctx context.Context, filters domain.ReportFilters) ([]domain.PriceTrend, error) {
	records, err := s.prices.ListPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch prices for trend report: %w", err)
	}
	return s.aggregator.PriceTrends(ctx, records, filters), nil
}

// MarketStats returns the per-market view for the given filters.
func (s *Service) MarketStats(ctx context.Context, filters domain.ReportFilters) ([]domain.MarketStats, error) {
	records, err := s.prices.ListPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch prices for market report: %w", err)
	}
	return s.aggregator.MarketStats(ctx, records, filters), nil
}

// ProductStats returns the per-product view for the given filters.
func (s *Service) ProductStats(ctx context.Context, filters domain.ReportFilters) ([]domain.ProductStats, error) {
	records, err := s.prices.ListPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch prices for product report: %w", err)
	}
	return s.aggregator.ProductStats(ctx, records, filters), nil
}

// CategoryStats returns the per-category view for the given filters.
func (s *Service) CategoryStats(ctx context.Context, filters domain.ReportFilters) ([]domain.CategoryStats, error) {
	records, err := s.prices.ListPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch prices for category report: %w", err)
	}
	return s.aggregator.CategoryStats(ctx, records, filters), nil
}

// Generate computes all four views concurrently and joins the results.
// Each view operates on its own locally fetched snapshot; there is no
// shared mutable state between the goroutines.
func (s *Service) Generate(ctx context.Context, filters domain.ReportFilters) (domain.ReportData, error) {
	s.logger.InfoContext(ctx, "generating report data",
		slog.String("start_date", filters.StartDate),
		slog.String("end_date", filters.EndDate),
		slog.String("market", filters.Market))

	var data domain.ReportData

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		trends, err := s.PriceTrends(gctx, filters)
		if err != nil {
			return err
		}
		data.PriceTrends = trends
		return nil
	})
	g.Go(func() error {
		markets, err := s.MarketStats(gctx, filters)
		if err != nil {
			return err
		}
		data.MarketStats = markets
		return nil
	})
	g.Go(func() error {
		products, err := s.ProductStats(gctx, filters)
		if err != nil {
			return err
		}
		data.ProductStats = products
		return nil
	})
	g.Go(func() error {
		categories, err := s.CategoryStats(gctx, filters)
		if err != nil {
			return err
		}
		data.CategoryStats = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.ReportData{}, err
	}

	s.logger.InfoContext(ctx, "report data generated",
		slog.Int("trend_rows", len(data.PriceTrends)),
		slog.Int("market_rows", len(data.MarketStats)),
		slog.Int("product_rows", len(data.ProductStats)),
		slog.Int("category_rows", len(data.CategoryStats)))

	return data, nil
}
