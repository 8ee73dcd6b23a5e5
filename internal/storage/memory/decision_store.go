// Package memory holds in-memory implementations of the storage contracts,
// used by the offline pipeline and as the reference behavior for the
// database-backed stores.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

// DecisionStore is an in-memory implementation of storage.DecisionStore.
type DecisionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Decision // keyed by signal_id
}

// NewDecisionStore creates a new in-memory decision store.
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{
		data: make(map[string]*domain.Decision),
	}
}

// Insert adds a new decision. Returns ErrDuplicateKey if signal_id exists.
func (s *DecisionStore) Insert(_ context.Context, d *domain.Decision) error {
	if d == nil || d.SignalID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[d.SignalID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *d
	s.data[d.SignalID] = &copy
	return nil
}

// InsertBulk adds multiple decisions atomically. Fails entire batch on any duplicate.
func (s *DecisionStore) InsertBulk(_ context.Context, decisions []*domain.Decision) error {
	if len(decisions) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(decisions))
	for _, d := range decisions {
		if d == nil || d.SignalID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[d.SignalID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[d.SignalID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[d.SignalID] = struct{}{}
	}

	for _, d := range decisions {
		copy := *d
		s.data[d.SignalID] = &copy
	}

	return nil
}

// GetBySignalID retrieves a decision by its signal ID. Returns ErrNotFound if not exists.
func (s *DecisionStore) GetBySignalID(_ context.Context, signalID string) (*domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.data[signalID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *d
	return &copy, nil
}

// GetByVerdict retrieves all decisions with the given verdict, ordered by event time ASC.
func (s *DecisionStore) GetByVerdict(_ context.Context, verdict domain.Verdict) ([]*domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Decision
	for _, d := range s.data {
		if d.Verdict == verdict {
			copy := *d
			result = append(result, &copy)
		}
	}

	sortDecisions(result)
	return result, nil
}

// GetAll retrieves all decisions, ordered by event time ASC.
func (s *DecisionStore) GetAll(_ context.Context) ([]*domain.Decision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Decision, 0, len(s.data))
	for _, d := range s.data {
		copy := *d
		result = append(result, &copy)
	}

	sortDecisions(result)
	return result, nil
}

func sortDecisions(decisions []*domain.Decision) {
	sort.Slice(decisions, func(i, j int) bool {
		if decisions[i].EventTimeMs != decisions[j].EventTimeMs {
			return decisions[i].EventTimeMs < decisions[j].EventTimeMs
		}
		return decisions[i].SignalID < decisions[j].SignalID
	})
}

var _ storage.DecisionStore = (*DecisionStore)(nil)
