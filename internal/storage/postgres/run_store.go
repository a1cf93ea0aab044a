package postgres

import (
	"context"
	"fmt"
	"time"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a new run record. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO system_runs (
			run_id, run_mode, started_at, ended_at, status, errors_count, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID, r.Mode, r.StartedAt, r.EndedAt, string(r.Status), r.ErrorsCount, r.ErrorMessage,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run record: %w", err)
	}
	return nil
}

// ListSince retrieves all runs with started_at >= start, ordered by started_at ASC.
func (s *RunStore) ListSince(ctx context.Context, start time.Time) ([]*domain.RunRecord, error) {
	query := `
		SELECT run_id, run_mode, started_at, ended_at, status, errors_count, error_message
		FROM system_runs
		WHERE started_at >= $1
		ORDER BY started_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start)
	if err != nil {
		return nil, fmt.Errorf("query run records: %w", err)
	}
	defer rows.Close()

	var result []*domain.RunRecord
	for rows.Next() {
		var (
			r      domain.RunRecord
			status string
		)
		if err := rows.Scan(&r.RunID, &r.Mode, &r.StartedAt, &r.EndedAt, &status, &r.ErrorsCount, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		r.Status = domain.RunStatus(status)
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run records: %w", err)
	}

	return result, nil
}
