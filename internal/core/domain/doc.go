// Package domain contains the core business entities of crmbridge: delegated
// CRM credentials, their denormalized lookup copies, identity change events,
// personal access grants, and the task-access authorization rules. The types
// here carry no transport or storage concerns; adapters translate at the
// boundary.
package domain
