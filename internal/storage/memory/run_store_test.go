package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
)

func runAt(id string, started time.Time, status domain.RunStatus) *domain.RunRecord {
	ended := started.Add(10 * time.Minute)
	return &domain.RunRecord{
		RunID:     id,
		Mode:      "full",
		StartedAt: started,
		EndedAt:   &ended,
		Status:    status,
	}
}

func TestRunStore_InsertAndListSince(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 22, 13, 0, 0, 0, time.UTC)

	for i, r := range []*domain.RunRecord{
		runAt("run2", base.AddDate(0, 0, 1), domain.RunCompleted),
		runAt("run1", base, domain.RunCompleted),
		runAt("run3", base.AddDate(0, 0, 2), domain.RunFailed),
	} {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}

	got, err := store.ListSince(ctx, base.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListSince failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	if got[0].RunID != "run2" || got[1].RunID != "run3" {
		t.Errorf("unexpected order: %s, %s", got[0].RunID, got[1].RunID)
	}
}

func TestRunStore_DuplicateRunID(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 22, 13, 0, 0, 0, time.UTC)

	if err := store.Insert(ctx, runAt("run1", base, domain.RunCompleted)); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := store.Insert(ctx, runAt("run1", base.Add(time.Hour), domain.RunFailed))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}
