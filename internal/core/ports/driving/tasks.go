package driving

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

// TaskService drives the delegated task-creation pipeline: grant lookup,
// token validity/refresh, permission check, guarded remote create.
type TaskService interface {
	// Create creates a CRM task on behalf of the subject. Failures are
	// typed: domain.ErrNoGrant, domain.ErrNotLinked, domain.ErrNotSynced,
	// domain.ErrNotAuthorized, domain.ErrRemoteFailed and
	// domain.ErrInvalidInput are all distinguishable with errors.Is.
	// Single attempt; the caller owns any retry affordance.
	Create(ctx context.Context, subjectID string, task domain.Task) error
}
