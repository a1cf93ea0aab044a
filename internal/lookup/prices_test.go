package lookup

import (
	"errors"
	"testing"
	"time"

	"promotion-lab/internal/domain"
)

func d(day int) time.Time {
	return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
}

func points(closes map[int]float64, days ...int) []*domain.PricePoint {
	var out []*domain.PricePoint
	for _, day := range days {
		out = append(out, &domain.PricePoint{Symbol: "AAPL", Date: d(day), Close: closes[day]})
	}
	return out
}

func TestClosingPriceAt_ExactDate(t *testing.T) {
	series := points(map[int]float64{3: 100.0, 4: 101.5, 5: 99.0}, 3, 4, 5)

	got, err := ClosingPriceAt(d(4), series)
	if err != nil {
		t.Fatalf("ClosingPriceAt failed: %v", err)
	}
	if got != 101.5 {
		t.Errorf("expected 101.5, got %f", got)
	}
}

func TestClosingPriceAt_CarriesPreviousClose(t *testing.T) {
	// No observation on the 8th (weekend); the 5th's close carries.
	series := points(map[int]float64{3: 100.0, 5: 99.0, 10: 102.0}, 3, 5, 10)

	got, err := ClosingPriceAt(d(8), series)
	if err != nil {
		t.Fatalf("ClosingPriceAt failed: %v", err)
	}
	if got != 99.0 {
		t.Errorf("expected 99.0, got %f", got)
	}
}

func TestClosingPriceAt_NoLookAhead(t *testing.T) {
	// Series starts after the target; a future close must never be used.
	series := points(map[int]float64{10: 102.0, 11: 103.0}, 10, 11)

	_, err := ClosingPriceAt(d(5), series)
	if !errors.Is(err, ErrNoPriceData) {
		t.Errorf("expected ErrNoPriceData, got %v", err)
	}
}

func TestClosingPriceAt_EmptySeries(t *testing.T) {
	_, err := ClosingPriceAt(d(5), nil)
	if !errors.Is(err, ErrNoPriceData) {
		t.Errorf("expected ErrNoPriceData, got %v", err)
	}
}

func TestResolver_UnknownSymbol(t *testing.T) {
	r := NewResolver(map[string][]*domain.PricePoint{
		"AAPL": points(map[int]float64{3: 100.0}, 3),
	})

	_, err := r.ClosingPriceAt("MSFT", d(3))
	if !errors.Is(err, ErrNoPriceData) {
		t.Errorf("expected ErrNoPriceData, got %v", err)
	}
}

func TestResolver_KnownSymbol(t *testing.T) {
	r := NewResolver(map[string][]*domain.PricePoint{
		"AAPL": points(map[int]float64{3: 100.0, 5: 99.0}, 3, 5),
	})

	got, err := r.ClosingPriceAt("AAPL", d(6))
	if err != nil {
		t.Fatalf("ClosingPriceAt failed: %v", err)
	}
	if got != 99.0 {
		t.Errorf("expected 99.0, got %f", got)
	}
}
