// Package instrument wraps the storage interfaces with per-call timing
// and error observations. The wrappers are transparent: arguments,
// results and errors pass through unchanged.
package instrument

import (
	"context"
	"time"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
)

// Recorder receives one observation per store call.
// *observability.Metrics satisfies it.
type Recorder interface {
	RecordDBQuery(database, operation string, seconds float64, err error)
}

func observe(rec Recorder, database, operation string, started time.Time, err error) {
	rec.RecordDBQuery(database, operation, time.Since(started).Seconds(), err)
}

// TradeStore instruments a storage.TradeStore.
type TradeStore struct {
	inner    storage.TradeStore
	database string
	rec      Recorder
}

var _ storage.TradeStore = (*TradeStore)(nil)

// NewTradeStore wraps inner, reporting under the given database label.
func NewTradeStore(inner storage.TradeStore, database string, rec Recorder) *TradeStore {
	return &TradeStore{inner: inner, database: database, rec: rec}
}

func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeEvent) error {
	started := time.Now()
	err := s.inner.Insert(ctx, t)
	observe(s.rec, s.database, "trades.insert", started, err)
	return err
}

func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.TradeEvent) error {
	started := time.Now()
	err := s.inner.InsertBulk(ctx, trades)
	observe(s.rec, s.database, "trades.insert_bulk", started, err)
	return err
}

func (s *TradeStore) ListSince(ctx context.Context, start time.Time) ([]*domain.TradeEvent, error) {
	started := time.Now()
	trades, err := s.inner.ListSince(ctx, start)
	observe(s.rec, s.database, "trades.list_since", started, err)
	return trades, err
}

// PriceSeriesStore instruments a storage.PriceSeriesStore.
type PriceSeriesStore struct {
	inner    storage.PriceSeriesStore
	database string
	rec      Recorder
}

var _ storage.PriceSeriesStore = (*PriceSeriesStore)(nil)

// NewPriceSeriesStore wraps inner, reporting under the given database label.
func NewPriceSeriesStore(inner storage.PriceSeriesStore, database string, rec Recorder) *PriceSeriesStore {
	return &PriceSeriesStore{inner: inner, database: database, rec: rec}
}

func (s *PriceSeriesStore) InsertBulk(ctx context.Context, points []*domain.PricePoint) error {
	started := time.Now()
	err := s.inner.InsertBulk(ctx, points)
	observe(s.rec, s.database, "prices.insert_bulk", started, err)
	return err
}

func (s *PriceSeriesStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.PricePoint, error) {
	started := time.Now()
	points, err := s.inner.GetBySymbol(ctx, symbol)
	observe(s.rec, s.database, "prices.get_by_symbol", started, err)
	return points, err
}

func (s *PriceSeriesStore) GetByDateRange(ctx context.Context, symbol string, from, to time.Time) ([]*domain.PricePoint, error) {
	started := time.Now()
	points, err := s.inner.GetByDateRange(ctx, symbol, from, to)
	observe(s.rec, s.database, "prices.get_by_date_range", started, err)
	return points, err
}

// BalanceSnapshotStore instruments a storage.BalanceSnapshotStore.
type BalanceSnapshotStore struct {
	inner    storage.BalanceSnapshotStore
	database string
	rec      Recorder
}

var _ storage.BalanceSnapshotStore = (*BalanceSnapshotStore)(nil)

// NewBalanceSnapshotStore wraps inner, reporting under the given database label.
func NewBalanceSnapshotStore(inner storage.BalanceSnapshotStore, database string, rec Recorder) *BalanceSnapshotStore {
	return &BalanceSnapshotStore{inner: inner, database: database, rec: rec}
}

func (s *BalanceSnapshotStore) Insert(ctx context.Context, snap *domain.BalanceSnapshot) error {
	started := time.Now()
	err := s.inner.Insert(ctx, snap)
	observe(s.rec, s.database, "balance_snapshots.insert", started, err)
	return err
}

func (s *BalanceSnapshotStore) InsertBulk(ctx context.Context, snaps []*domain.BalanceSnapshot) error {
	started := time.Now()
	err := s.inner.InsertBulk(ctx, snaps)
	observe(s.rec, s.database, "balance_snapshots.insert_bulk", started, err)
	return err
}

func (s *BalanceSnapshotStore) ListSince(ctx context.Context, start time.Time) ([]*domain.BalanceSnapshot, error) {
	started := time.Now()
	snaps, err := s.inner.ListSince(ctx, start)
	observe(s.rec, s.database, "balance_snapshots.list_since", started, err)
	return snaps, err
}

// RunStore instruments a storage.RunStore.
type RunStore struct {
	inner    storage.RunStore
	database string
	rec      Recorder
}

var _ storage.RunStore = (*RunStore)(nil)

// NewRunStore wraps inner, reporting under the given database label.
func NewRunStore(inner storage.RunStore, database string, rec Recorder) *RunStore {
	return &RunStore{inner: inner, database: database, rec: rec}
}

func (s *RunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	started := time.Now()
	err := s.inner.Insert(ctx, r)
	observe(s.rec, s.database, "system_runs.insert", started, err)
	return err
}

func (s *RunStore) ListSince(ctx context.Context, start time.Time) ([]*domain.RunRecord, error) {
	started := time.Now()
	runs, err := s.inner.ListSince(ctx, start)
	observe(s.rec, s.database, "system_runs.list_since", started, err)
	return runs, err
}
