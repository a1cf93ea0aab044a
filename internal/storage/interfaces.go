package storage

import (
	"context"
	"time"

	"promotion-lab/internal/domain"
)

// TradeStore provides read/write access to the trade ledger.
// The engine only reads; writers are the execution pipeline and fixtures.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeEvent) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeEvent) error

	// ListSince retrieves all trades with entry_time >= start, any status,
	// ordered by entry_time ASC.
	ListSince(ctx context.Context, start time.Time) ([]*domain.TradeEvent, error)
}

// PriceSeriesStore provides access to daily closing price history.
type PriceSeriesStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (symbol, date).
	InsertBulk(ctx context.Context, points []*domain.PricePoint) error

	// GetBySymbol retrieves all points for a symbol, ordered by date ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.PricePoint, error)

	// GetByDateRange retrieves points for a symbol within [from, to] (inclusive),
	// ordered by date ASC.
	GetByDateRange(ctx context.Context, symbol string, from, to time.Time) ([]*domain.PricePoint, error)
}

// BalanceSnapshotStore provides access to periodic portfolio valuations.
// Optional input: drawdown falls back to a ledger estimate without it.
type BalanceSnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if the timestamp exists.
	Insert(ctx context.Context, s *domain.BalanceSnapshot) error

	// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, snaps []*domain.BalanceSnapshot) error

	// ListSince retrieves all snapshots with timestamp >= start, ordered by timestamp ASC.
	ListSince(ctx context.Context, start time.Time) ([]*domain.BalanceSnapshot, error)
}

// RunStore provides access to the pipeline execution telemetry log.
type RunStore interface {
	// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.RunRecord) error

	// ListSince retrieves all runs with started_at >= start, ordered by started_at ASC.
	ListSince(ctx context.Context, start time.Time) ([]*domain.RunRecord, error)
}
