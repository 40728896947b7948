package mcp

import (
	"github.com/custodia-labs/crmbridge/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Task performs delegated CRM task creation.
	Task driving.TaskService

	// Credential answers lookup queries about a subject's linked account.
	Credential driving.CredentialService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Task == nil {
		return ErrMissingTaskService
	}
	// Credential is optional; the status tool is skipped without it.
	return nil
}
