package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"promotion-lab/internal/domain"
	"promotion-lab/internal/storage"
)

// BalanceSnapshotStore is an in-memory implementation of storage.BalanceSnapshotStore.
type BalanceSnapshotStore struct {
	mu   sync.RWMutex
	data map[time.Time]*domain.BalanceSnapshot // keyed by timestamp
}

// NewBalanceSnapshotStore creates a new in-memory balance snapshot store.
func NewBalanceSnapshotStore() *BalanceSnapshotStore {
	return &BalanceSnapshotStore{
		data: make(map[time.Time]*domain.BalanceSnapshot),
	}
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if the timestamp exists.
func (s *BalanceSnapshotStore) Insert(_ context.Context, snap *domain.BalanceSnapshot) error {
	if snap == nil || snap.Timestamp.IsZero() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := snap.Timestamp.UTC()
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *snap
	s.data[key] = &copy
	return nil
}

// InsertBulk adds multiple snapshots atomically. Fails entire batch on any duplicate.
func (s *BalanceSnapshotStore) InsertBulk(_ context.Context, snaps []*domain.BalanceSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[time.Time]struct{}, len(snaps))

	for _, snap := range snaps {
		if snap == nil || snap.Timestamp.IsZero() {
			return storage.ErrInvalidInput
		}
		key := snap.Timestamp.UTC()
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, snap := range snaps {
		copy := *snap
		s.data[snap.Timestamp.UTC()] = &copy
	}

	return nil
}

// ListSince retrieves all snapshots with timestamp >= start, ordered by timestamp ASC.
func (s *BalanceSnapshotStore) ListSince(_ context.Context, start time.Time) ([]*domain.BalanceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BalanceSnapshot
	for _, snap := range s.data {
		if !snap.Timestamp.Before(start) {
			copy := *snap
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result, nil
}

var _ storage.BalanceSnapshotStore = (*BalanceSnapshotStore)(nil)
