package driving

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

// GrantService manages personal access grants: the user-supplied platform
// tokens that authenticate crmbridge's calls back into the identity
// platform. Grants are never refreshed automatically.
type GrantService interface {
	// Set stores the grant token for a subject, replacing any existing
	// grant.
	Set(ctx context.Context, subjectID, token string) (*domain.PersonalAccessGrant, error)

	// Get retrieves the grant for a subject.
	// Returns domain.ErrNotFound if none exists.
	Get(ctx context.Context, subjectID string) (*domain.PersonalAccessGrant, error)

	// Reset removes the grant for a subject.
	Reset(ctx context.Context, subjectID string) error
}
