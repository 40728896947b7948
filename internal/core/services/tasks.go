package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driving"
	"github.com/custodia-labs/crmbridge/internal/logger"
)

// Ensure TaskService implements the interface.
var _ driving.TaskService = (*TaskService)(nil)

// ProviderFactory builds a credential provider for a subject's grant.
// The factory indirection keeps the refresh machinery an adapter concern.
type ProviderFactory interface {
	ProviderFor(grant domain.PersonalAccessGrant) driven.CredentialProvider
}

// TaskService orchestrates a delegated task creation: obtain a valid
// credential, check the CRM role model, perform the guarded create. Each
// stage short-circuits the pipeline with a typed outcome; nothing here
// retries.
type TaskService struct {
	grants    driven.GrantStore
	providers ProviderFactory
	crm       driven.CRMClient
}

// NewTaskService creates a task service.
func NewTaskService(grants driven.GrantStore, providers ProviderFactory, crm driven.CRMClient) *TaskService {
	return &TaskService{
		grants:    grants,
		providers: providers,
		crm:       crm,
	}
}

// Create creates a CRM task on behalf of the subject.
func (s *TaskService) Create(ctx context.Context, subjectID string, task domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	grant, err := s.grants.GetBySubject(ctx, subjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNoGrant
		}
		return fmt.Errorf("get grant: %w", err)
	}

	cred, err := s.providers.ProviderFor(*grant).Credential(ctx)
	if err != nil {
		// ErrNotLinked / ErrNotSynced pass through untouched so callers
		// can offer the right affordance.
		return err
	}

	roles, err := s.crm.TaskRoles(ctx, cred)
	if err != nil {
		// A role model we cannot read is a deny, not a crash.
		logger.Warn("task create: roles fetch failed for %s: %v", subjectID, err)
		return fmt.Errorf("%w: %w", domain.ErrNotAuthorized, err)
	}

	decision := domain.EvaluateAccess(roles, domain.TaskCategory)
	if !decision.Allowed {
		logger.Debug("task create: denied for %s: %s", subjectID, decision.Reason)
		return fmt.Errorf("%w: %s", domain.ErrNotAuthorized, decision.Reason)
	}

	if err := s.crm.CreateTask(ctx, cred, task); err != nil {
		return err
	}

	logger.Info("task create: created %q for %s", task.Name, subjectID)
	return nil
}
