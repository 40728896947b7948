package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

func TestIdentityStore_GetMissing(t *testing.T) {
	store := NewIdentityStore()

	_, err := store.Get(context.Background(), "nobody")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIdentityStore_SetLookup(t *testing.T) {
	store := NewIdentityStore()
	store.Put(domain.IdentityRecord{ID: "u1", Username: "ada"})

	err := store.SetLookup(context.Background(), "u1", domain.LookupRecord{
		ServiceID:   "svc-1",
		AccessToken: "at-1",
	})
	require.NoError(t, err)

	record, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, record.Lookup)
	assert.Equal(t, "at-1", record.Lookup.AccessToken)
	assert.Equal(t, 1, store.LookupWrites())
}

func TestIdentityStore_SetLookupMissing(t *testing.T) {
	store := NewIdentityStore()

	err := store.SetLookup(context.Background(), "nobody", domain.LookupRecord{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGrantStore_RoundTrip(t *testing.T) {
	store := NewGrantStore()
	ctx := context.Background()

	grant := domain.PersonalAccessGrant{
		ID:        "g-1",
		SubjectID: "u1",
		Token:     "secret",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Save(ctx, grant))

	got, err := store.GetBySubject(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, grant, *got)

	require.NoError(t, store.DeleteBySubject(ctx, "u1"))

	_, err = store.GetBySubject(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGrantStore_SaveReplaces(t *testing.T) {
	store := NewGrantStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.PersonalAccessGrant{ID: "g-1", SubjectID: "u1", Token: "old"}))
	require.NoError(t, store.Save(ctx, domain.PersonalAccessGrant{ID: "g-2", SubjectID: "u1", Token: "new"}))

	got, err := store.GetBySubject(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Token)
}

func TestChangeFeed_EmitAfterClose(t *testing.T) {
	feed := NewChangeFeed()
	feed.Close()

	// Must not panic.
	feed.Emit(domain.IdentityChange{SubjectID: "u1"})

	ch, err := feed.Watch(context.Background())
	require.NoError(t, err)
	_, open := <-ch
	assert.False(t, open)
}
