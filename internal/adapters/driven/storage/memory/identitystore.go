package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
)

// Ensure IdentityStore implements the interface.
var _ driven.IdentityStore = (*IdentityStore)(nil)

// IdentityStore is an in-memory implementation of driven.IdentityStore.
type IdentityStore struct {
	mu      sync.RWMutex
	records map[string]domain.IdentityRecord

	// lookupWrites counts SetLookup calls, letting tests assert write
	// idempotence.
	lookupWrites int
}

// NewIdentityStore creates a new in-memory identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		records: make(map[string]domain.IdentityRecord),
	}
}

// Put stores or replaces a full identity record. Not part of the driven
// port; tests and fixtures use it to seed state.
func (s *IdentityStore) Put(record domain.IdentityRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
}

// Get re-fetches the full current identity record.
func (s *IdentityStore) Get(_ context.Context, subjectID string) (*domain.IdentityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[subjectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// SetLookup writes the lookup fields as one combined update.
func (s *IdentityStore) SetLookup(_ context.Context, subjectID string, lookup domain.LookupRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[subjectID]
	if !ok {
		return domain.ErrNotFound
	}
	record.Lookup = &lookup
	s.records[subjectID] = record
	s.lookupWrites++
	return nil
}

// LookupWrites returns how many lookup writes have occurred.
func (s *IdentityStore) LookupWrites() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupWrites
}
