package mcp

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

// mockTaskService is a mock implementation of driving.TaskService.
type mockTaskService struct {
	err     error
	subject string
	task    domain.Task
}

func (m *mockTaskService) Create(_ context.Context, subjectID string, task domain.Task) error {
	m.subject = subjectID
	m.task = task
	return m.err
}

// mockCredentialService is a mock implementation of driving.CredentialService.
type mockCredentialService struct {
	lookup *domain.LookupRecord
	err    error
}

func (m *mockCredentialService) Lookup(_ context.Context, _ string) (*domain.LookupRecord, error) {
	return m.lookup, m.err
}
