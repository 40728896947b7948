// Package mcp provides an MCP (Model Context Protocol) server adapter for
// crmbridge. It lets AI assistants create CRM tasks and inspect credential
// state on a subject's behalf.
package mcp

import "errors"

// ErrMissingTaskService is returned when the task service is not provided.
var ErrMissingTaskService = errors.New("mcp: task service is required")
