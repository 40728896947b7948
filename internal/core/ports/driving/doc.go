// Package driving defines the primary ports of crmbridge: the service
// interfaces exposed to driving adapters (CLI, MCP server).
package driving
