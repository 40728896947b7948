package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

// CreateTaskInput is the input schema for the create_task tool.
type CreateTaskInput struct {
	SubjectID   string `json:"subject_id" jsonschema:"platform user id the task is created on behalf of"`
	Name        string `json:"name" jsonschema:"task title"`
	Description string `json:"description,omitempty" jsonschema:"task body text"`
	Priority    string `json:"priority,omitempty" jsonschema:"task priority (default Medium)"`
}

// CreateTaskOutput is the output schema for the create_task tool.
type CreateTaskOutput struct {
	Created bool   `json:"created"`
	Name    string `json:"name"`
}

// CredentialStatusInput is the input schema for the credential_status tool.
type CredentialStatusInput struct {
	SubjectID string `json:"subject_id" jsonschema:"platform user id to check"`
}

// CredentialStatusOutput is the output schema for the credential_status tool.
type CredentialStatusOutput struct {
	State     string `json:"state" jsonschema:"linked, syncing, or not_linked"`
	ServiceID string `json:"service_id,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty" jsonschema:"access token expiry in epoch milliseconds"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_task",
		Description: "Create a CRM task on behalf of a platform user",
	}, s.handleCreateTask)

	if s.ports.Credential != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "credential_status",
			Description: "Check whether a platform user has a linked, synchronized CRM account",
		}, s.handleCredentialStatus)
	}
}

// handleCreateTask handles the create_task tool invocation.
func (s *Server) handleCreateTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateTaskInput,
) (*mcp.CallToolResult, CreateTaskOutput, error) {
	task := domain.Task{
		Name:        input.Name,
		Description: input.Description,
		Priority:    input.Priority,
	}

	if err := s.ports.Task.Create(ctx, input.SubjectID, task); err != nil {
		return nil, CreateTaskOutput{}, err
	}

	return nil, CreateTaskOutput{Created: true, Name: task.Name}, nil
}

// handleCredentialStatus handles the credential_status tool invocation.
// The two pending states remain distinct so the assistant can tell the
// user to link an account versus simply retry.
func (s *Server) handleCredentialStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CredentialStatusInput,
) (*mcp.CallToolResult, CredentialStatusOutput, error) {
	lookup, err := s.ports.Credential.Lookup(ctx, input.SubjectID)
	switch {
	case err == nil:
		return nil, CredentialStatusOutput{
			State:     "linked",
			ServiceID: lookup.ServiceID,
			ExpiresAt: lookup.ExpiresAt,
		}, nil
	case errors.Is(err, domain.ErrNotSynced):
		return nil, CredentialStatusOutput{State: "syncing"}, nil
	case errors.Is(err, domain.ErrNotLinked):
		return nil, CredentialStatusOutput{State: "not_linked"}, nil
	default:
		return nil, CredentialStatusOutput{}, err
	}
}
