package driven

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

// GrantStore persists personal access grants. Each subject has at most one
// grant (1:1 relationship); saving for the same subject replaces the
// existing grant.
type GrantStore interface {
	// Save stores a grant. Creates if new, replaces if one exists for the
	// subject.
	Save(ctx context.Context, grant domain.PersonalAccessGrant) error

	// GetBySubject retrieves the grant for a subject.
	// Returns domain.ErrNotFound if none exists.
	GetBySubject(ctx context.Context, subjectID string) (*domain.PersonalAccessGrant, error)

	// DeleteBySubject removes the grant for a subject.
	DeleteBySubject(ctx context.Context, subjectID string) error
}
