package postgres

import (
	"context"
	"fmt"
	"time"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const insertTradeQuery = `
	INSERT INTO trades (
		trade_id, symbol, side, shares,
		entry_price, entry_time,
		exit_time, exit_price, profit_loss, profit_loss_pct, holding_days,
		strategy, status
	) VALUES (
		$1, $2, $3, $4,
		$5, $6,
		$7, $8, $9, $10, $11,
		$12, $13
	)
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeEvent) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertTradeQuery,
		t.TradeID, t.Symbol, string(t.Side), t.Shares,
		t.EntryPrice, t.EntryTime,
		t.ExitTime, t.ExitPrice, t.ProfitLoss, t.ProfitLossPct, t.HoldingDays,
		t.Strategy, string(t.Status),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.TradeEvent) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, insertTradeQuery,
			t.TradeID, t.Symbol, string(t.Side), t.Shares,
			t.EntryPrice, t.EntryTime,
			t.ExitTime, t.ExitPrice, t.ProfitLoss, t.ProfitLossPct, t.HoldingDays,
			t.Strategy, string(t.Status),
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade %s: %w", t.TradeID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListSince retrieves all trades with entry_time >= start, ordered by entry_time ASC.
func (s *TradeStore) ListSince(ctx context.Context, start time.Time) ([]*domain.TradeEvent, error) {
	query := `
		SELECT trade_id, symbol, side, shares,
		       entry_price, entry_time,
		       exit_time, exit_price, profit_loss, profit_loss_pct, holding_days,
		       strategy, status
		FROM trades
		WHERE entry_time >= $1
		ORDER BY entry_time ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start)
	if err != nil {
		return nil, fmt.Errorf("query trades since: %w", err)
	}
	defer rows.Close()

	var result []*domain.TradeEvent
	for rows.Next() {
		var (
			t      domain.TradeEvent
			side   string
			status string
		)
		err := rows.Scan(
			&t.TradeID, &t.Symbol, &side, &t.Shares,
			&t.EntryPrice, &t.EntryTime,
			&t.ExitTime, &t.ExitPrice, &t.ProfitLoss, &t.ProfitLossPct, &t.HoldingDays,
			&t.Strategy, &status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Side = domain.Side(side)
		t.Status = domain.TradeStatus(status)
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}

	return result, nil
}
