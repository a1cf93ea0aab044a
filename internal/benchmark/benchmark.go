// Package benchmark rescales a reference instrument's close series so it
// can be charted against the reconstructed portfolio timeline on the
// same axis.
package benchmark

import (
	"time"

	"promotion-lab/internal/domain"
)

// Point is one normalized benchmark observation.
type Point struct {
	Date  time.Time
	Value float64 // capital-equivalent value, rounded to the cent
}

// Normalize scales the close series to startingCapital at the first
// observation on or after start: value_t = capital * close_t / base.
// Points before start are dropped. Returns nil when no usable base
// exists (empty series, nothing at or after start, or a non-positive
// base close).
func Normalize(points []*domain.PricePoint, start time.Time, startingCapital float64) []Point {
	start = domain.Day(start)

	base := 0.0
	var out []Point
	for _, p := range points {
		if p == nil || p.Date.Before(start) {
			continue
		}
		if base == 0 {
			if p.Close <= 0 {
				return nil
			}
			base = p.Close
		}
		out = append(out, Point{
			Date:  p.Date,
			Value: domain.Round2(startingCapital * p.Close / base),
		})
	}
	return out
}
