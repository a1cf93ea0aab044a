package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
)

// priceKey identifies one observation: one close per symbol per day.
type priceKey struct {
	symbol string
	date   time.Time
}

// PriceSeriesStore is an in-memory implementation of storage.PriceSeriesStore.
type PriceSeriesStore struct {
	mu   sync.RWMutex
	data map[priceKey]*domain.PricePoint
}

// NewPriceSeriesStore creates a new in-memory price series store.
func NewPriceSeriesStore() *PriceSeriesStore {
	return &PriceSeriesStore{
		data: make(map[priceKey]*domain.PricePoint),
	}
}

// InsertBulk adds multiple points. Fails entire batch on duplicate (symbol, date).
func (s *PriceSeriesStore) InsertBulk(_ context.Context, points []*domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[priceKey]struct{}, len(points))

	for _, p := range points {
		if p == nil || p.Symbol == "" {
			return storage.ErrInvalidInput
		}
		k := priceKey{p.Symbol, p.Date.UTC()}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[priceKey{p.Symbol, p.Date.UTC()}] = &copy
	}

	return nil
}

// GetBySymbol retrieves all points for a symbol, ordered by date ASC.
func (s *PriceSeriesStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for _, p := range s.data {
		if p.Symbol == symbol {
			copy := *p
			result = append(result, &copy)
		}
	}

	sortByDate(result)
	return result, nil
}

// GetByDateRange retrieves points for a symbol within [from, to] (inclusive).
func (s *PriceSeriesStore) GetByDateRange(_ context.Context, symbol string, from, to time.Time) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for _, p := range s.data {
		if p.Symbol != symbol {
			continue
		}
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		copy := *p
		result = append(result, &copy)
	}

	sortByDate(result)
	return result, nil
}

func sortByDate(points []*domain.PricePoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}

var _ storage.PriceSeriesStore = (*PriceSeriesStore)(nil)
