package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/crmbridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

func TestCredentialService_Lookup(t *testing.T) {
	store := memory.NewIdentityStore()
	store.Put(domain.IdentityRecord{
		ID: "u1",
		OAuthCredential: &domain.OAuthCredential{
			ID:          "svc-1",
			AccessToken: "at-1",
		},
		Lookup: &domain.LookupRecord{
			ServiceID:    "svc-1",
			AccessToken:  "at-1",
			RefreshToken: "rt-1",
			ExpiresAt:    1700000000000,
		},
	})
	service := NewCredentialService(store)

	lookup, err := service.Lookup(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "at-1", lookup.AccessToken)
	assert.Equal(t, int64(1700000000000), lookup.ExpiresAt)
}

func TestCredentialService_LookupNotLinked(t *testing.T) {
	store := memory.NewIdentityStore()
	store.Put(domain.IdentityRecord{ID: "u1"})
	service := NewCredentialService(store)

	_, err := service.Lookup(context.Background(), "u1")

	assert.ErrorIs(t, err, domain.ErrNotLinked)
}

func TestCredentialService_LookupNotSynced(t *testing.T) {
	store := memory.NewIdentityStore()
	// Linked, but the reconciler has not copied the credential yet.
	store.Put(domain.IdentityRecord{
		ID:              "u1",
		OAuthCredential: &domain.OAuthCredential{ID: "svc-1", AccessToken: "at-1"},
	})
	service := NewCredentialService(store)

	_, err := service.Lookup(context.Background(), "u1")

	assert.ErrorIs(t, err, domain.ErrNotSynced)
}

func TestCredentialService_LookupUnknownSubject(t *testing.T) {
	service := NewCredentialService(memory.NewIdentityStore())

	_, err := service.Lookup(context.Background(), "nobody")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
