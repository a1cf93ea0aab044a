package postgres

import (
	"context"
	"fmt"
	"time"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
)

// BalanceSnapshotStore implements storage.BalanceSnapshotStore using PostgreSQL.
type BalanceSnapshotStore struct {
	pool *Pool
}

// NewBalanceSnapshotStore creates a new BalanceSnapshotStore.
func NewBalanceSnapshotStore(pool *Pool) *BalanceSnapshotStore {
	return &BalanceSnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BalanceSnapshotStore = (*BalanceSnapshotStore)(nil)

const insertSnapshotQuery = `
	INSERT INTO balance_snapshots (snapshot_time, total_value, cash, equity)
	VALUES ($1, $2, $3, $4)
`

// Insert adds a new snapshot. Returns ErrDuplicateKey if the timestamp exists.
func (s *BalanceSnapshotStore) Insert(ctx context.Context, snap *domain.BalanceSnapshot) error {
	if snap == nil || snap.Timestamp.IsZero() {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertSnapshotQuery,
		snap.Timestamp, snap.TotalValue, snap.Cash, snap.Equity,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert balance snapshot: %w", err)
	}
	return nil
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *BalanceSnapshotStore) InsertBulk(ctx context.Context, snaps []*domain.BalanceSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, snap := range snaps {
		if snap == nil || snap.Timestamp.IsZero() {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertSnapshotQuery,
			snap.Timestamp, snap.TotalValue, snap.Cash, snap.Equity,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert balance snapshot at %s: %w", snap.Timestamp, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListSince retrieves all snapshots with timestamp >= start, ordered by timestamp ASC.
func (s *BalanceSnapshotStore) ListSince(ctx context.Context, start time.Time) ([]*domain.BalanceSnapshot, error) {
	query := `
		SELECT snapshot_time, total_value, cash, equity
		FROM balance_snapshots
		WHERE snapshot_time >= $1
		ORDER BY snapshot_time ASC
	`

	rows, err := s.pool.Query(ctx, query, start)
	if err != nil {
		return nil, fmt.Errorf("query balance snapshots: %w", err)
	}
	defer rows.Close()

	var result []*domain.BalanceSnapshot
	for rows.Next() {
		var snap domain.BalanceSnapshot
		if err := rows.Scan(&snap.Timestamp, &snap.TotalValue, &snap.Cash, &snap.Equity); err != nil {
			return nil, fmt.Errorf("scan balance snapshot: %w", err)
		}
		result = append(result, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate balance snapshots: %w", err)
	}

	return result, nil
}
