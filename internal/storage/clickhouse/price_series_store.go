package clickhouse

import (
	"context"
	"fmt"
	"time"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
)

// PriceSeriesStore implements storage.PriceSeriesStore using ClickHouse.
// Daily closes are append-heavy and range-scanned, which suits a
// MergeTree table better than the transactional Postgres side.
type PriceSeriesStore struct {
	conn *Conn
}

// NewPriceSeriesStore creates a new PriceSeriesStore.
func NewPriceSeriesStore(conn *Conn) *PriceSeriesStore {
	return &PriceSeriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceSeriesStore = (*PriceSeriesStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate (symbol, close_date).
func (s *PriceSeriesStore) InsertBulk(ctx context.Context, points []*domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		symbol string
		date   time.Time
	}
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Symbol == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.Symbol, p.Date.UTC()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing rows
	for _, p := range points {
		exists, err := s.exists(ctx, p.Symbol, p.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_prices (symbol, close_date, close)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.Symbol, p.Date.UTC(), p.Close); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySymbol retrieves all points for a symbol, ordered by date ASC.
func (s *PriceSeriesStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.PricePoint, error) {
	query := `
		SELECT symbol, close_date, close
		FROM daily_prices
		WHERE symbol = ?
		ORDER BY close_date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query by symbol: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// GetByDateRange retrieves points for a symbol within [from, to] (inclusive).
func (s *PriceSeriesStore) GetByDateRange(ctx context.Context, symbol string, from, to time.Time) ([]*domain.PricePoint, error) {
	query := `
		SELECT symbol, close_date, close
		FROM daily_prices
		WHERE symbol = ? AND close_date >= ? AND close_date <= ?
		ORDER BY close_date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// exists checks whether a (symbol, close_date) row is already stored.
func (s *PriceSeriesStore) exists(ctx context.Context, symbol string, date time.Time) (bool, error) {
	query := `
		SELECT count() FROM daily_prices
		WHERE symbol = ? AND close_date = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, symbol, date.UTC()).Scan(&count); err != nil {
		return false, fmt.Errorf("query count: %w", err)
	}
	return count > 0, nil
}

// rowScanner abstracts driver.Rows for scanning.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPricePoints(rows rowScanner) ([]*domain.PricePoint, error) {
	var result []*domain.PricePoint
	for rows.Next() {
		var p domain.PricePoint
		if err := rows.Scan(&p.Symbol, &p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		p.Date = p.Date.UTC()
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price points: %w", err)
	}
	return result, nil
}
