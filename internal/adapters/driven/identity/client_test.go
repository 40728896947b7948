package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

var testGrant = domain.PersonalAccessGrant{
	ID:        "g-1",
	SubjectID: "u1",
	Token:     "pat-token",
}

func TestClient_LinkedCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/linked-account/status", r.URL.Path)
		assert.Equal(t, "pat-token", r.Header.Get("X-Auth-Token"))
		assert.Equal(t, "u1", r.Header.Get("X-User-Id"))

		json.NewEncoder(w).Encode(map[string]any{
			"service": map[string]any{
				"id":           "svc-1",
				"serverURL":    "https://crm.example.com",
				"accessToken":  "at-1",
				"refreshToken": "rt-1",
				"expiresAt":    1700000000000,
			},
		})
	}))
	defer server.Close()

	cred, err := NewClient(server.URL).LinkedCredential(context.Background(), testGrant)

	require.NoError(t, err)
	assert.Equal(t, &domain.DelegatedCredential{
		SubjectID:    "u1",
		ServiceID:    "svc-1",
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		ExpiresAt:    1700000000000,
		ServerURL:    "https://crm.example.com",
	}, cred)
}

func TestClient_LinkedCredentialNotLinked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no linked account"})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).LinkedCredential(context.Background(), testGrant)

	assert.ErrorIs(t, err, domain.ErrNotLinked)
}

func TestClient_LinkedCredentialSyncing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "credential not synchronized",
			"code":  "TOKEN_SYNCING",
		})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).LinkedCredential(context.Background(), testGrant)

	assert.ErrorIs(t, err, domain.ErrNotSynced)
}

func TestClient_LinkedCredentialBareNotFound(t *testing.T) {
	// A 404 with no parseable body still reads as "not linked".
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).LinkedCredential(context.Background(), testGrant)

	assert.ErrorIs(t, err, domain.ErrNotLinked)
}

func TestClient_UpdateCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/linked-account/status", r.URL.Path)
		assert.Equal(t, "pat-token", r.Header.Get("X-Auth-Token"))

		var tokens domain.TokenGrant
		require.NoError(t, json.NewDecoder(r.Body).Decode(&tokens))
		assert.Equal(t, "at-2", tokens.AccessToken)
		assert.Equal(t, "rt-2", tokens.RefreshToken)
		assert.Equal(t, int64(1700003600000), tokens.ExpiresAt)
	}))
	defer server.Close()

	err := NewClient(server.URL).UpdateCredential(context.Background(), testGrant, domain.TokenGrant{
		AccessToken:  "at-2",
		RefreshToken: "rt-2",
		ExpiresAt:    1700003600000,
	})

	assert.NoError(t, err)
}

func TestClient_UpdateCredentialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := NewClient(server.URL).UpdateCredential(context.Background(), testGrant, domain.TokenGrant{})

	assert.Error(t, err)
}
