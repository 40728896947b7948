package auth

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
	"github.com/custodia-labs/crmbridge/internal/logger"
)

// Ensure DelegatedProvider implements the interface.
var _ driven.CredentialProvider = (*DelegatedProvider)(nil)

// DelegatedProvider yields a usable delegated credential for one subject,
// refreshing the token pair transparently when the stored one has expired.
//
// Refresh is fail-open: whatever stage fails (secret fetch, token exchange,
// write-back), the stale credential is returned instead of an error. A
// stale token may still be honored server-side for a moment, and a failed
// refresh here must not mask the "linked but broken" state behind a
// spurious "not linked" one. There is no retry, no backoff, no early
// renewal window: the next expired call simply attempts the exchange again.
type DelegatedProvider struct {
	grant  domain.PersonalAccessGrant
	source driven.CredentialSource
	crm    driven.CRMClient
	now    func() time.Time

	// mu serializes refresh attempts for this provider instance so two
	// concurrent callers do not both spend the rotating refresh token.
	mu sync.Mutex
}

// NewDelegatedProvider creates a provider bound to one subject's grant.
func NewDelegatedProvider(grant domain.PersonalAccessGrant, source driven.CredentialSource, crm driven.CRMClient) *DelegatedProvider {
	return &DelegatedProvider{
		grant:  grant,
		source: source,
		crm:    crm,
		now:    time.Now,
	}
}

// Credential returns the subject's delegated credential, refreshed if the
// stored one has expired. domain.ErrNotLinked and domain.ErrNotSynced from
// the source pass through untouched.
func (p *DelegatedProvider) Credential(ctx context.Context) (*domain.DelegatedCredential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cred, err := p.source.LinkedCredential(ctx, p.grant)
	if err != nil {
		return nil, err
	}

	if !cred.Expired(p.now()) {
		return cred, nil
	}
	return p.refresh(ctx, cred), nil
}

// refresh runs the refresh-token exchange against the CRM identified by
// the credential's server URL and persists the new pair before returning
// it. On any failure the stale credential is returned.
func (p *DelegatedProvider) refresh(ctx context.Context, stale *domain.DelegatedCredential) *domain.DelegatedCredential {
	client, err := p.crm.ClientSecret(ctx, stale.ServerURL)
	if err != nil {
		logger.Warn("token refresh: client secret fetch failed for %s: %v", stale.SubjectID, err)
		return stale
	}

	grant, err := p.crm.RefreshToken(ctx, stale.ServerURL, client, stale.RefreshToken)
	if err != nil {
		logger.Warn("token refresh: exchange failed for %s: %v", stale.SubjectID, err)
		return stale
	}

	// Persist before returning: callers must never hold tokens the
	// platform does not know about, or the rotated refresh token is lost
	// on the next expiry.
	if err := p.source.UpdateCredential(ctx, p.grant, *grant); err != nil {
		logger.Warn("token refresh: write-back failed for %s: %v", stale.SubjectID, err)
		return stale
	}

	fresh := *stale
	fresh.AccessToken = grant.AccessToken
	fresh.RefreshToken = grant.RefreshToken
	fresh.ExpiresAt = grant.ExpiresAt
	logger.Debug("token refresh: rotated credential for %s", stale.SubjectID)
	return &fresh
}
