package reports

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camprice/pkg/contracts/domain"
)

type stubLister struct {
	records []domain.PriceRecord
	err     error
	calls   atomic.Int64
}

func (s *stubLister) ListPrices(ctx context.Context) ([]domain.PriceRecord, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func TestService_Generate(t *testing.T) {
	lister := &stubLister{records: sampleRecords()}
	svc := NewService(lister, nil, nil)

	data, err := svc.Generate(context.Background(), testFilters())
	require.NoError(t, err)

	assert.Len(t, data.PriceTrends, 2)
	assert.Len(t, data.MarketStats, 2)
	assert.Len(t, data.ProductStats, 2)
	assert.Len(t, data.CategoryStats, 2)
	assert.False(t, data.Empty())

	// One fetch per view.
	assert.Equal(t, int64(4), lister.calls.Load())
}

func TestService_Generate_FetchErrorAbortsReport(t *testing.T) {
	lister := &stubLister{err: errors.New("backend unreachable")}
	svc := NewService(lister, nil, nil)

	data, err := svc.Generate(context.Background(), testFilters())
	require.Error(t, err)
	assert.ErrorContains(t, err, "backend unreachable")
	assert.True(t, data.Empty())
}

func TestService_Generate_EmptyBackend(t *testing.T) {
	svc := NewService(&stubLister{}, nil, nil)

	data, err := svc.Generate(context.Background(), testFilters())
	require.NoError(t, err)
	assert.True(t, data.Empty())
}

func TestService_ViewMethods(t *testing.T) {
	lister := &stubLister{records: sampleRecords()}
	svc := NewService(lister, NewAggregator(nil, nil, FixedChangeSource(1)), nil)
	ctx := context.Background()

	trends, err := svc.PriceTrends(ctx, testFilters())
	require.NoError(t, err)
	assert.Len(t, trends, 2)

	markets, err := svc.MarketStats(ctx, testFilters())
	require.NoError(t, err)
	require.Len(t, markets, 2)
	assert.Equal(t, 1.0, markets[0].PriceChange)

	products, err := svc.ProductStats(ctx, testFilters())
	require.NoError(t, err)
	assert.Len(t, products, 2)

	categories, err := svc.CategoryStats(ctx, testFilters())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestService_ViewMethods_PropagateFetchError(t *testing.T) {
	lister := &stubLister{err: errors.New("boom")}
	svc := NewService(lister, nil, nil)
	ctx := context.Background()

	_, err := svc.PriceTrends(ctx, testFilters())
	assert.Error(t, err)
	_, err = svc.MarketStats(ctx, testFilters())
	assert.Error(t, err)
	_, err = svc.ProductStats(ctx, testFilters())
	assert.Error(t, err)
	_, err = svc.CategoryStats(ctx, testFilters())
	assert.Error(t, err)
}
