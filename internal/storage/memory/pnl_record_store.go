package memory

import (
	"context"
	"sort"
	"sync"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

// PnLRecordStore is an in-memory implementation of storage.PnLRecordStore.
type PnLRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PnLRecord // keyed by signal_id
}

// NewPnLRecordStore creates a new in-memory PnL record store.
func NewPnLRecordStore() *PnLRecordStore {
	return &PnLRecordStore{
		data: make(map[string]*domain.PnLRecord),
	}
}

// Insert adds a new record. Returns ErrDuplicateKey if signal_id exists.
func (s *PnLRecordStore) Insert(_ context.Context, r *domain.PnLRecord) error {
	if r == nil || r.SignalID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.SignalID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *r
	s.data[r.SignalID] = &copy
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *PnLRecordStore) InsertBulk(_ context.Context, records []*domain.PnLRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.SignalID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[r.SignalID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[r.SignalID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[r.SignalID] = struct{}{}
	}

	for _, r := range records {
		copy := *r
		s.data[r.SignalID] = &copy
	}

	return nil
}

// GetBySignalID retrieves a record by its signal ID. Returns ErrNotFound if not exists.
func (s *PnLRecordStore) GetBySignalID(_ context.Context, signalID string) (*domain.PnLRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[signalID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *r
	return &copy, nil
}

// GetByDay retrieves all records for a UTC entry day, ordered by close time ASC.
func (s *PnLRecordStore) GetByDay(_ context.Context, day string) ([]*domain.PnLRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PnLRecord
	for _, r := range s.data {
		if r.EntryDayUTC == day {
			copy := *r
			result = append(result, &copy)
		}
	}

	sortPnLRecords(result)
	return result, nil
}

// GetAll retrieves all records, ordered by close time ASC then signal ID.
func (s *PnLRecordStore) GetAll(_ context.Context) ([]*domain.PnLRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PnLRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sortPnLRecords(result)
	return result, nil
}

func sortPnLRecords(records []*domain.PnLRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CloseTimeMs != records[j].CloseTimeMs {
			return records[i].CloseTimeMs < records[j].CloseTimeMs
		}
		return records[i].SignalID < records[j].SignalID
	})
}

var _ storage.PnLRecordStore = (*PnLRecordStore)(nil)
