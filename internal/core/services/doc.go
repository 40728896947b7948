// Package services implements the core use cases of crmbridge: credential
// reconciliation, delegated task creation, lookup queries, and grant
// management. Services depend only on ports; adapters are injected at
// construction.
package services
