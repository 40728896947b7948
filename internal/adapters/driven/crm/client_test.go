package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
)

func testCredential(serverURL string) *domain.DelegatedCredential {
	return &domain.DelegatedCredential{
		SubjectID:   "u1",
		ServiceID:   "svc-1",
		AccessToken: "at-1",
		ServerURL:   serverURL,
	}
}

func TestClient_ClientSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/oauth/client-secret", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{
			"client_id":     "cid",
			"client_secret": "cs",
		})
	}))
	defer server.Close()

	creds, err := NewClient().ClientSecret(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, domain.ClientCredentials{ClientID: "cid", ClientSecret: "cs"}, creds)
}

func TestClient_ClientSecretRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient().ClientSecret(context.Background(), server.URL)

	assert.ErrorIs(t, err, domain.ErrRemoteFailed)
}

func TestClient_RefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/token", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh_token", body["grant_type"])
		assert.Equal(t, "cid", body["client_id"])
		assert.Equal(t, "cs", body["client_secret"])
		assert.Equal(t, "rt-1", body["refresh_token"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-2",
			"refresh_token": "rt-2",
			"expires_in":    3600,
		})
	}))
	defer server.Close()

	before := time.Now().UnixMilli()
	grant, err := NewClient().RefreshToken(context.Background(), server.URL,
		domain.ClientCredentials{ClientID: "cid", ClientSecret: "cs"}, "rt-1")
	after := time.Now().UnixMilli()

	require.NoError(t, err)
	assert.Equal(t, "at-2", grant.AccessToken)
	assert.Equal(t, "rt-2", grant.RefreshToken)
	assert.GreaterOrEqual(t, grant.ExpiresAt, before+3600_000)
	assert.LessOrEqual(t, grant.ExpiresAt, after+3600_000)
}

func TestClient_RefreshTokenErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "refresh token revoked",
		})
	}))
	defer server.Close()

	_, err := NewClient().RefreshToken(context.Background(), server.URL, domain.ClientCredentials{}, "rt-1")

	require.ErrorIs(t, err, domain.ErrTokenRefreshFailed)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestClient_TaskRoles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/roles/svc-1/task-permissions", r.URL.Path)
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"total_roles": 1,
			"roles": []map[string]any{
				{"actions": []map[string]any{
					{"name": "access", "category": "Tasks", "access_override": -99},
				}},
			},
		})
	}))
	defer server.Close()

	roles, err := NewClient().TaskRoles(context.Background(), testCredential(server.URL))

	require.NoError(t, err)
	assert.Equal(t, 1, roles.TotalRoles)
	require.Len(t, roles.Roles, 1)
	require.Len(t, roles.Roles[0].Actions, 1)
	assert.Equal(t, domain.AccessOverrideDenyAll, roles.Roles[0].Actions[0].AccessOverride)
}

func TestClient_CreateTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/resources", r.URL.Path)
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))

		var task domain.Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&task))
		assert.Equal(t, "Follow up", task.Name)
		assert.Equal(t, "Medium", task.Priority)

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := NewClient().CreateTask(context.Background(), testCredential(server.URL),
		domain.Task{Name: "Follow up", Priority: "Medium"})

	assert.NoError(t, err)
}

func TestClient_CreateTaskNon201IsFailure(t *testing.T) {
	// 200 with a body is not success; only 201 is.
	for _, status := range []int{http.StatusOK, http.StatusForbidden, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		err := NewClient().CreateTask(context.Background(), testCredential(server.URL), domain.Task{Name: "x"})

		assert.ErrorIs(t, err, domain.ErrRemoteFailed, "status %d", status)
		server.Close()
	}
}
