package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
)

// Ensure GrantStore implements the interface.
var _ driven.GrantStore = (*GrantStore)(nil)

// GrantStore is an in-memory implementation of driven.GrantStore.
type GrantStore struct {
	mu     sync.RWMutex
	grants map[string]domain.PersonalAccessGrant
}

// NewGrantStore creates a new in-memory grant store.
func NewGrantStore() *GrantStore {
	return &GrantStore{
		grants: make(map[string]domain.PersonalAccessGrant),
	}
}

// Save stores a grant, replacing any existing grant for the same subject.
func (s *GrantStore) Save(_ context.Context, grant domain.PersonalAccessGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grant.SubjectID] = grant
	return nil
}

// GetBySubject returns the grant held for a subject.
func (s *GrantStore) GetBySubject(_ context.Context, subjectID string) (*domain.PersonalAccessGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	grant, ok := s.grants[subjectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &grant, nil
}

// DeleteBySubject removes the grant held for a subject.
func (s *GrantStore) DeleteBySubject(_ context.Context, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grants[subjectID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.grants, subjectID)
	return nil
}
