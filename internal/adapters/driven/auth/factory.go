package auth

import (
	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
	"github.com/custodia-labs/crmbridge/internal/core/services"
)

// Ensure ProviderFactory implements the interface.
var _ services.ProviderFactory = (*ProviderFactory)(nil)

// ProviderFactory builds delegated providers over a shared credential
// source and CRM client.
type ProviderFactory struct {
	source driven.CredentialSource
	crm    driven.CRMClient
}

// NewProviderFactory creates a provider factory.
func NewProviderFactory(source driven.CredentialSource, crm driven.CRMClient) *ProviderFactory {
	return &ProviderFactory{
		source: source,
		crm:    crm,
	}
}

// ProviderFor returns a provider bound to the given grant.
func (f *ProviderFactory) ProviderFor(grant domain.PersonalAccessGrant) driven.CredentialProvider {
	return NewDelegatedProvider(grant, f.source, f.crm)
}
