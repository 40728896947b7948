package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driving"
)

// Ensure GrantService implements the interface.
var _ driving.GrantService = (*GrantService)(nil)

// GrantService manages personal access grants.
type GrantService struct {
	store driven.GrantStore
}

// NewGrantService creates a grant service.
func NewGrantService(store driven.GrantStore) *GrantService {
	return &GrantService{store: store}
}

// Set stores the grant token for a subject, replacing any existing grant.
func (s *GrantService) Set(ctx context.Context, subjectID, token string) (*domain.PersonalAccessGrant, error) {
	token = strings.TrimSpace(token)
	if subjectID == "" || token == "" {
		return nil, domain.ErrInvalidInput
	}

	grant := domain.PersonalAccessGrant{
		ID:        uuid.New().String(),
		SubjectID: subjectID,
		Token:     token,
		CreatedAt: time.Now(),
	}
	if err := s.store.Save(ctx, grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Get retrieves the grant for a subject.
func (s *GrantService) Get(ctx context.Context, subjectID string) (*domain.PersonalAccessGrant, error) {
	return s.store.GetBySubject(ctx, subjectID)
}

// Reset removes the grant for a subject.
func (s *GrantService) Reset(ctx context.Context, subjectID string) error {
	return s.store.DeleteBySubject(ctx, subjectID)
}
