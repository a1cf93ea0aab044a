package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
	"promotion-lab/internal/storage/postgres"
)

func testRun(id string, started time.Time, status domain.RunStatus) *domain.RunRecord {
	ended := started.Add(12 * time.Minute)
	return &domain.RunRecord{
		RunID:        id,
		Mode:         "full",
		StartedAt:    started,
		EndedAt:      &ended,
		Status:       status,
		ErrorsCount:  1,
		ErrorMessage: "price feed timeout",
	}
}

func TestRunStore_InsertAndListSince(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewRunStore(pool)
	ctx := context.Background()
	base := time.Date(2025, 3, 22, 13, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, testRun("run2", base.AddDate(0, 0, 1), domain.RunCompleted)))
	require.NoError(t, store.Insert(ctx, testRun("run1", base, domain.RunFailed)))

	got, err := store.ListSince(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by started_at ASC.
	assert.Equal(t, "run1", got[0].RunID)
	assert.Equal(t, domain.RunFailed, got[0].Status)
	assert.Equal(t, 1, got[0].ErrorsCount)
	assert.Equal(t, "price feed timeout", got[0].ErrorMessage)
	require.NotNil(t, got[0].EndedAt)
	assert.InDelta(t, 12.0, got[0].DurationMinutes(), 1e-9)

	got, err = store.ListSince(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "run2", got[0].RunID)
}

func TestRunStore_DuplicateRunID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewRunStore(pool)
	ctx := context.Background()
	base := time.Date(2025, 3, 22, 13, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, testRun("run1", base, domain.RunCompleted)))

	err := store.Insert(ctx, testRun("run1", base.Add(time.Hour), domain.RunFailed))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}
