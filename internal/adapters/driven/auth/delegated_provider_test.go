package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

type mockSource struct {
	cred    *domain.DelegatedCredential
	credErr error

	updateErr error
	updates   []domain.TokenGrant
}

func (m *mockSource) LinkedCredential(_ context.Context, _ domain.PersonalAccessGrant) (*domain.DelegatedCredential, error) {
	if m.credErr != nil {
		return nil, m.credErr
	}
	cred := *m.cred
	return &cred, nil
}

func (m *mockSource) UpdateCredential(_ context.Context, _ domain.PersonalAccessGrant, tokens domain.TokenGrant) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, tokens)
	return nil
}

type mockCRM struct {
	client    domain.ClientCredentials
	clientErr error

	grant        *domain.TokenGrant
	grantErr     error
	refreshCalls int
	refreshSeen  string
}

func (m *mockCRM) ClientSecret(_ context.Context, _ string) (domain.ClientCredentials, error) {
	return m.client, m.clientErr
}

func (m *mockCRM) RefreshToken(_ context.Context, _ string, _ domain.ClientCredentials, refreshToken string) (*domain.TokenGrant, error) {
	m.refreshCalls++
	m.refreshSeen = refreshToken
	return m.grant, m.grantErr
}

func (m *mockCRM) TaskRoles(_ context.Context, _ *domain.DelegatedCredential) (*domain.RoleSet, error) {
	return nil, errors.New("not used")
}

func (m *mockCRM) CreateTask(_ context.Context, _ *domain.DelegatedCredential, _ domain.Task) error {
	return errors.New("not used")
}

var testNow = time.UnixMilli(1700000000000)

func newProvider(source *mockSource, crm *mockCRM) *DelegatedProvider {
	p := NewDelegatedProvider(domain.PersonalAccessGrant{SubjectID: "u1", Token: "pat"}, source, crm)
	p.now = func() time.Time { return testNow }
	return p
}

func validCredential() *domain.DelegatedCredential {
	return &domain.DelegatedCredential{
		SubjectID:    "u1",
		ServiceID:    "svc-1",
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresAt:    testNow.UnixMilli() + 60_000,
		ServerURL:    "https://crm.example.com",
	}
}

func expiredCredential() *domain.DelegatedCredential {
	cred := validCredential()
	cred.ExpiresAt = testNow.UnixMilli() - 1
	return cred
}

func TestDelegatedProvider_ReturnsValidCredentialUntouched(t *testing.T) {
	source := &mockSource{cred: validCredential()}
	crm := &mockCRM{}

	cred, err := newProvider(source, crm).Credential(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "at-1", cred.AccessToken)
	assert.Zero(t, crm.refreshCalls)
}

func TestDelegatedProvider_RefreshesExpiredCredential(t *testing.T) {
	source := &mockSource{cred: expiredCredential()}
	crm := &mockCRM{
		client: domain.ClientCredentials{ClientID: "cid", ClientSecret: "cs"},
		grant: &domain.TokenGrant{
			AccessToken:  "at-2",
			RefreshToken: "rt-2",
			ExpiresAt:    testNow.UnixMilli() + 3600_000,
		},
	}

	cred, err := newProvider(source, crm).Credential(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "at-2", cred.AccessToken)
	assert.Equal(t, "rt-2", cred.RefreshToken)
	assert.Equal(t, testNow.UnixMilli()+3600_000, cred.ExpiresAt)
	// Identity fields survive the refresh.
	assert.Equal(t, "svc-1", cred.ServiceID)
	assert.Equal(t, "https://crm.example.com", cred.ServerURL)
	// The old refresh token is the one spent on the exchange, and the new
	// pair was written back.
	assert.Equal(t, "rt-1", crm.refreshSeen)
	require.Len(t, source.updates, 1)
	assert.Equal(t, "rt-2", source.updates[0].RefreshToken)
}

func TestDelegatedProvider_ExpiryBoundaryRefreshes(t *testing.T) {
	cred := validCredential()
	cred.ExpiresAt = testNow.UnixMilli()
	source := &mockSource{cred: cred}
	crm := &mockCRM{grant: &domain.TokenGrant{AccessToken: "at-2"}}

	_, err := newProvider(source, crm).Credential(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, crm.refreshCalls)
}

func TestDelegatedProvider_FailOpen(t *testing.T) {
	fresh := &domain.TokenGrant{AccessToken: "at-2", RefreshToken: "rt-2"}

	cases := []struct {
		name string
		crm  *mockCRM
		src  func(*mockSource)
	}{
		{
			name: "secret fetch fails",
			crm:  &mockCRM{clientErr: errors.New("boom")},
		},
		{
			name: "exchange fails",
			crm:  &mockCRM{grantErr: errors.New("boom")},
		},
		{
			name: "write-back fails",
			crm:  &mockCRM{grant: fresh},
			src:  func(s *mockSource) { s.updateErr = errors.New("boom") },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			source := &mockSource{cred: expiredCredential()}
			if tc.src != nil {
				tc.src(source)
			}

			cred, err := newProvider(source, tc.crm).Credential(context.Background())

			require.NoError(t, err)
			assert.Equal(t, "at-1", cred.AccessToken)
			assert.Equal(t, "rt-1", cred.RefreshToken)
		})
	}
}

func TestDelegatedProvider_LinkStatePassesThrough(t *testing.T) {
	for _, sentinel := range []error{domain.ErrNotLinked, domain.ErrNotSynced} {
		t.Run(sentinel.Error(), func(t *testing.T) {
			source := &mockSource{credErr: sentinel}

			_, err := newProvider(source, &mockCRM{}).Credential(context.Background())

			assert.ErrorIs(t, err, sentinel)
		})
	}
}
