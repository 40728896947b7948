package services

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driving"
)

// Ensure CredentialService implements the interface.
var _ driving.CredentialService = (*CredentialService)(nil)

// CredentialService answers synchronous lookup queries against the
// identity store, distinguishing "never linked" from "linked but not yet
// synchronized".
type CredentialService struct {
	store driven.IdentityStore
}

// NewCredentialService creates a credential lookup service.
func NewCredentialService(store driven.IdentityStore) *CredentialService {
	return &CredentialService{store: store}
}

// Lookup returns the lookup fields for a subject.
func (s *CredentialService) Lookup(ctx context.Context, subjectID string) (*domain.LookupRecord, error) {
	record, err := s.store.Get(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if record.Lookup != nil && record.Lookup.AccessToken != "" {
		lookup := *record.Lookup
		return &lookup, nil
	}

	// Lookup fields absent: decide which distinct outcome applies.
	if record.OAuthCredential != nil {
		return nil, domain.ErrNotSynced
	}
	return nil, domain.ErrNotLinked
}
