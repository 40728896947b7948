package driven

import (
	"context"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

// CRMClient talks to the remote CRM instance identified by a credential's
// server URL. All calls are single-attempt; retry policy belongs to the
// caller.
type CRMClient interface {
	// ClientSecret fetches the OAuth client application credentials from
	// the CRM's public, unauthenticated secret endpoint.
	ClientSecret(ctx context.Context, serverURL string) (domain.ClientCredentials, error)

	// RefreshToken exchanges a refresh token for a new token pair using
	// the refresh-token grant.
	RefreshToken(ctx context.Context, serverURL string, client domain.ClientCredentials, refreshToken string) (*domain.TokenGrant, error)

	// TaskRoles fetches the role configuration guarding task actions for
	// the linked account.
	TaskRoles(ctx context.Context, cred *domain.DelegatedCredential) (*domain.RoleSet, error)

	// CreateTask performs the guarded resource creation. Success is
	// strictly HTTP 201; anything else is domain.ErrRemoteFailed.
	CreateTask(ctx context.Context, cred *domain.DelegatedCredential, task domain.Task) error
}
