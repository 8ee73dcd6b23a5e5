package memory

import (
	"context"
	"sort"
	"sync"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

// FillStore is an in-memory implementation of storage.FillStore.
type FillStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SimulatedFill // keyed by signal_id
}

// NewFillStore creates a new in-memory fill store.
func NewFillStore() *FillStore {
	return &FillStore{
		data: make(map[string]*domain.SimulatedFill),
	}
}

// Insert adds a new fill. Returns ErrDuplicateKey if signal_id exists.
func (s *FillStore) Insert(_ context.Context, f *domain.SimulatedFill) error {
	if f == nil || f.SignalID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[f.SignalID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *f
	s.data[f.SignalID] = &copy
	return nil
}

// GetBySignalID retrieves a fill by its signal ID. Returns ErrNotFound if not exists.
func (s *FillStore) GetBySignalID(_ context.Context, signalID string) (*domain.SimulatedFill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, exists := s.data[signalID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *f
	return &copy, nil
}

// GetByStatus retrieves all fills with the given status, ordered by fill time ASC.
func (s *FillStore) GetByStatus(_ context.Context, status domain.FillStatus) ([]*domain.SimulatedFill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SimulatedFill
	for _, f := range s.data {
		if f.Status == status {
			copy := *f
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].FillTimeMs != result[j].FillTimeMs {
			return result[i].FillTimeMs < result[j].FillTimeMs
		}
		return result[i].SignalID < result[j].SignalID
	})

	return result, nil
}

var _ storage.FillStore = (*FillStore)(nil)
