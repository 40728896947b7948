package driving

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

// CredentialService exposes the delegated-credential lookup to the host:
// a thin synchronous query over the identity store.
type CredentialService interface {
	// Lookup returns the four lookup fields for a subject.
	// Returns domain.ErrNotLinked when the subject never linked a CRM
	// account, and domain.ErrNotSynced when the link exists but
	// propagation has not yet occurred.
	Lookup(ctx context.Context, subjectID string) (*domain.LookupRecord, error)
}
