package lookup

import (
	"errors"
	"time"

	"promotion-lab/internal/domain"
)

// ErrNoPriceData is returned when an instrument has no usable closing
// price at or before the requested date. Callers treat this as a
// degradation signal, not a failure: valuation falls back to the
// position's entry price.
var ErrNoPriceData = errors.New("no price data available")

// ClosingPriceAt returns the most recent close with date <= target.
// Prices with date > target are never used: valuing a past day with a
// future price would fabricate history. Returns ErrNoPriceData when the
// series is empty or starts after target.
func ClosingPriceAt(target time.Time, points []*domain.PricePoint) (float64, error) {
	for i := len(points) - 1; i >= 0; i-- {
		if !points[i].Date.After(target) {
			return points[i].Close, nil
		}
	}
	return 0, ErrNoPriceData
}

// Resolver answers point lookups against price series pre-fetched before
// reconstruction begins. It performs no I/O.
type Resolver struct {
	series map[string][]*domain.PricePoint // per symbol, ordered by date ASC
}

// NewResolver creates a resolver over per-symbol series.
// Each series must be ordered by date ascending.
func NewResolver(series map[string][]*domain.PricePoint) *Resolver {
	if series == nil {
		series = make(map[string][]*domain.PricePoint)
	}
	return &Resolver{series: series}
}

// ClosingPriceAt returns the latest known close for symbol at or before
// date. Returns ErrNoPriceData for unknown symbols or dates before the
// series starts.
func (r *Resolver) ClosingPriceAt(symbol string, date time.Time) (float64, error) {
	return ClosingPriceAt(date, r.series[symbol])
}
