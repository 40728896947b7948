package driven

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

// CredentialSource reads and writes the delegated credential through the
// identity platform's API, authenticated with the subject's personal
// access grant. This is the external lookup interface the token lifecycle
// sits on top of.
type CredentialSource interface {
	// LinkedCredential returns the subject's delegated credential from the
	// lookup fields. Returns domain.ErrNotLinked when the subject has no
	// CRM link, and domain.ErrNotSynced when a link exists but the
	// credential has not yet propagated.
	LinkedCredential(ctx context.Context, grant domain.PersonalAccessGrant) (*domain.DelegatedCredential, error)

	// UpdateCredential writes a refreshed token grant back to the identity
	// platform so the authoritative record and lookup copy converge.
	UpdateCredential(ctx context.Context, grant domain.PersonalAccessGrant, tokens domain.TokenGrant) error
}

// CredentialProvider yields a currently valid delegated credential,
// refreshing transparently when the stored one has expired. On refresh
// failure the stale credential is returned rather than nothing: a stale
// token may still be momentarily valid server-side, and the final
// authorization decision belongs downstream.
type CredentialProvider interface {
	Credential(ctx context.Context) (*domain.DelegatedCredential, error)
}
