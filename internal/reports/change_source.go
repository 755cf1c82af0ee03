package reports

import "math/rand"

// ChangeSource supplies the MarketStats price-change percentage.
//
// No real historical comparison is defined for this field yet, so the
// value is injected rather than computed: production wiring uses
// UnimplementedChangeSource, and tests substitute fixed stubs.
type ChangeSource interface {
	PriceChange(marketName string) float64
}

// UnimplementedChangeSource reports zero change for every market.
// This is the production default until a real computation is specified.
type UnimplementedChangeSource struct{}

// PriceChange always returns 0.
func (UnimplementedChangeSource) PriceChange(string) float64 { return 0 }

// PseudoChangeSource reproduces the legacy placeholder behavior: a
// uniformly distributed value in (-10, +10) percent per market, drawn
// from a seeded generator. Only useful when behavioral parity with the
// old report screens is required.
type PseudoChangeSource struct {
	rng *rand.Rand
}

// NewPseudoChangeSource creates a pseudo-random change source.
func NewPseudoChangeSource(seed int64) *PseudoChangeSource {
	return &PseudoChangeSource{rng: rand.New(rand.NewSource(seed))}
}

// PriceChange returns a uniform value in (-10, +10).
func (s *PseudoChangeSource) PriceChange(string) float64 {
	return (s.rng.Float64() - 0.5) * 20
}

// FixedChangeSource returns the same value for every market. Test helper.
type FixedChangeSource float64

// PriceChange returns the fixed value.
func (s FixedChangeSource) PriceChange(string) float64 { return float64(s) }
