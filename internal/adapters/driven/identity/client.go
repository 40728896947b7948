// Package identity implements the REST client for the identity platform's
// linked-account API, authenticated with a subject's personal access grant.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CredentialSource = (*Client)(nil)

const requestTimeout = 30 * time.Second

// syncingCode is the platform's error code for "linked but the credential
// has not yet propagated to the lookup fields".
const syncingCode = "TOKEN_SYNCING"

// Client reads and writes delegated credentials through the identity
// platform's linked-account endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the platform at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// statusResponse is the wire shape of the linked-account status endpoint.
type statusResponse struct {
	Service struct {
		ID           string `json:"id"`
		ServerURL    string `json:"serverURL"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresAt    int64  `json:"expiresAt"`
	} `json:"service"`
}

// errorResponse is the platform's error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// LinkedCredential fetches the subject's delegated credential from the
// lookup fields. A 404 splits into two distinct outcomes on the error
// code: still syncing versus never linked.
func (c *Client) LinkedCredential(ctx context.Context, grant domain.PersonalAccessGrant) (*domain.DelegatedCredential, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/linked-account/status", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authenticate(req, grant)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Code == syncingCode {
			return nil, domain.ErrNotSynced
		}
		return nil, domain.ErrNotLinked
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request returned status %d", resp.StatusCode)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}

	return &domain.DelegatedCredential{
		SubjectID:    grant.SubjectID,
		ServiceID:    status.Service.ID,
		AccessToken:  status.Service.AccessToken,
		RefreshToken: status.Service.RefreshToken,
		ExpiresAt:    status.Service.ExpiresAt,
		ServerURL:    status.Service.ServerURL,
	}, nil
}

// UpdateCredential writes a refreshed token grant back to the platform so
// the authoritative record and lookup copy converge.
func (c *Client) UpdateCredential(ctx context.Context, grant domain.PersonalAccessGrant, tokens domain.TokenGrant) error {
	body, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/linked-account/status", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authenticate(req, grant)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("update request returned status %d", resp.StatusCode)
	}
	return nil
}

// authenticate attaches the subject's personal access grant headers.
func (c *Client) authenticate(req *http.Request, grant domain.PersonalAccessGrant) {
	req.Header.Set("X-Auth-Token", grant.Token)
	req.Header.Set("X-User-Id", grant.SubjectID)
	req.Header.Set("Accept", "application/json")
}
