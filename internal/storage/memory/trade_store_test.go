package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
)

func tradeAt(id string, entry time.Time) *domain.TradeEvent {
	return &domain.TradeEvent{
		TradeID:    id,
		Symbol:     "AAPL",
		Side:       domain.SideBuy,
		Shares:     10,
		EntryPrice: 100.0,
		EntryTime:  entry,
		Status:     domain.StatusOpen,
	}
}

func TestTradeStore_InsertAndList(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()
	entry := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)

	if err := store.Insert(ctx, tradeAt("trade1", entry)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.ListSince(ctx, time.Time{})
	if err != nil {
		t.Fatalf("ListSince failed: %v", err)
	}
	if len(got) != 1 || got[0].TradeID != "trade1" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestTradeStore_DuplicateKey(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()
	entry := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)

	if err := store.Insert(ctx, tradeAt("trade1", entry)); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, tradeAt("trade1", entry))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeStore_InsertBulkAtomicOnIntraBatchDuplicate(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()
	entry := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)

	err := store.InsertBulk(ctx, []*domain.TradeEvent{
		tradeAt("trade1", entry),
		tradeAt("trade1", entry.Add(time.Hour)),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	got, err := store.ListSince(ctx, time.Time{})
	if err != nil {
		t.Fatalf("ListSince failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("failed batch must insert nothing, got %d rows", len(got))
	}
}

func TestTradeStore_ListSinceFiltersAndSorts(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)

	err := store.InsertBulk(ctx, []*domain.TradeEvent{
		tradeAt("trade3", base.AddDate(0, 0, 2)),
		tradeAt("trade1", base),
		tradeAt("trade2", base.AddDate(0, 0, 1)),
		tradeAt("trade0", base.AddDate(0, 0, -5)),
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.ListSince(ctx, base)
	if err != nil {
		t.Fatalf("ListSince failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 trades since start, got %d", len(got))
	}
	for i, want := range []string{"trade1", "trade2", "trade3"} {
		if got[i].TradeID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].TradeID)
		}
	}
}

func TestTradeStore_ReturnsCopies(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()
	entry := time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC)

	original := tradeAt("trade1", entry)
	if err := store.Insert(ctx, original); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, _ := store.ListSince(ctx, time.Time{})
	got[0].EntryPrice = 999.0

	again, _ := store.ListSince(ctx, time.Time{})
	if again[0].EntryPrice != 100.0 {
		t.Errorf("mutating a returned trade leaked into the store")
	}
}

func TestTradeStore_InvalidInput(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.TradeEvent{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty trade_id, got %v", err)
	}
}
