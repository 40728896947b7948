// Package crm implements the HTTP client for the remote CRM's REST API.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CRMClient = (*Client)(nil)

const requestTimeout = 30 * time.Second

// Client talks to CRM instances over their REST API. The instance is
// chosen per call via the credential's server URL, so one Client serves
// every subject.
type Client struct {
	base    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a CRM client. The rate limiter is shared across all
// instances reached through this client.
func NewClient() *Client {
	return &Client{
		base: &http.Client{Timeout: requestTimeout},
		// Unauthenticated secret fetches and token exchanges share the
		// budget with delegated calls.
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// ClientSecret fetches the OAuth client application credentials from the
// CRM's public secret endpoint.
func (c *Client) ClientSecret(ctx context.Context, serverURL string) (domain.ClientCredentials, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.ClientCredentials{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/oauth/client-secret", nil)
	if err != nil {
		return domain.ClientCredentials{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return domain.ClientCredentials{}, fmt.Errorf("secret request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ClientCredentials{}, fmt.Errorf("%w: secret request returned status %d", domain.ErrRemoteFailed, resp.StatusCode)
	}

	var creds domain.ClientCredentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return domain.ClientCredentials{}, fmt.Errorf("decode secret response: %w", err)
	}
	return creds, nil
}

// RefreshToken exchanges a refresh token for a new token pair. The
// relative expires_in from the wire becomes an absolute epoch-millisecond
// expiry.
func (c *Client) RefreshToken(ctx context.Context, serverURL string, client domain.ClientCredentials, refreshToken string) (*domain.TokenGrant, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{
		"grant_type":    "refresh_token",
		"client_id":     client.ClientID,
		"client_secret": client.ClientSecret,
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/oauth/token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("%w: %s - %s", domain.ErrTokenRefreshFailed, errResp.Error, errResp.Description)
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrTokenRefreshFailed, resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", domain.ErrTokenRefreshFailed)
	}

	return &domain.TokenGrant{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresAt:    time.Now().UnixMilli() + tokenResp.ExpiresIn*1000,
	}, nil
}

// TaskRoles fetches the role configuration guarding task actions for the
// linked account.
func (c *Client) TaskRoles(ctx context.Context, cred *domain.DelegatedCredential) (*domain.RoleSet, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/roles/%s/task-permissions", cred.ServerURL, cred.ServiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.bearer(ctx, cred).Do(req)
	if err != nil {
		return nil, fmt.Errorf("roles request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: roles request returned status %d", domain.ErrRemoteFailed, resp.StatusCode)
	}

	var roles domain.RoleSet
	if err := json.NewDecoder(resp.Body).Decode(&roles); err != nil {
		return nil, fmt.Errorf("decode roles response: %w", err)
	}
	return &roles, nil
}

// CreateTask performs the guarded resource creation. Only 201 counts as
// success; every other status is a terminal failure for this attempt.
func (c *Client) CreateTask(ctx context.Context, cred *domain.DelegatedCredential, task domain.Task) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cred.ServerURL+"/resources", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.bearer(ctx, cred).Do(req)
	if err != nil {
		return fmt.Errorf("task request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: task create returned status %d", domain.ErrRemoteFailed, resp.StatusCode)
	}
	return nil
}

// bearer returns an HTTP client that attaches the delegated access token
// to every request, layered over the shared base client.
func (c *Client) bearer(ctx context.Context, cred *domain.DelegatedCredential) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cred.AccessToken,
	}))
}
