package domain

import "time"

// DelegatedCredential is one subject's CRM-side OAuth grant: the token pair
// plus expiry held on the subject's behalf to call the remote CRM.
//
// Invariants: ExpiresAt is always the expiry of the current AccessToken, and
// AccessToken/RefreshToken are replaced together after a successful refresh,
// never one without the other.
type DelegatedCredential struct {
	// SubjectID is the identity-store user key. Immutable once created.
	SubjectID string `json:"subjectId"`
	// ServiceID is the remote-system record id for the linked account.
	ServiceID string `json:"serviceId"`
	// AccessToken is the opaque short-lived bearer token.
	AccessToken string `json:"accessToken"`
	// RefreshToken is the opaque long-lived token; it rotates on use.
	RefreshToken string `json:"refreshToken"`
	// ExpiresAt is the absolute expiry of AccessToken in epoch milliseconds.
	ExpiresAt int64 `json:"expiresAt"`
	// ServerURL is the base URL of the remote CRM instance for this subject.
	ServerURL string `json:"serverURL"`
}

// Expired reports whether the access token has expired at the given instant.
func (c *DelegatedCredential) Expired(now time.Time) bool {
	return now.UnixMilli() >= c.ExpiresAt
}

// TokenGrant is the result of a refresh-token exchange: the replacement
// token pair and its expiry, already converted to an absolute timestamp.
type TokenGrant struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresAt is epoch milliseconds.
	ExpiresAt int64 `json:"expiresAt"`
}

// ClientCredentials identifies the CRM-side OAuth client application used
// for the refresh-token grant. Fetched from the CRM's public secret
// endpoint; never stored.
type ClientCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// LookupRecord is the denormalized, fast-access copy of a subset of the
// DelegatedCredential fields, kept under the lookup-field namespace of the
// identity record. It is eventually consistent with the authoritative
// credential and may lag by at most one reconciliation cycle.
type LookupRecord struct {
	ServiceID    string `json:"serviceId"    bson:"serviceId"`
	AccessToken  string `json:"accessToken"  bson:"accessToken"`
	RefreshToken string `json:"refreshToken" bson:"refreshToken"`
	// ExpiresAt is epoch milliseconds.
	ExpiresAt int64 `json:"expiresAt" bson:"expiresAt"`
}

// PersonalAccessGrant is a user-supplied opaque bearer credential (not an
// OAuth token) that authenticates crmbridge's own calls back into the
// identity platform's API on the subject's behalf. Created by explicit user
// action, never auto-refreshed, removed only by explicit reset.
type PersonalAccessGrant struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`
	// SubjectID links the grant to a subject (1:1 relationship).
	SubjectID string `json:"subject_id"`
	// Token is the opaque platform token.
	Token string `json:"token"`
	// CreatedAt is when the grant was stored.
	CreatedAt time.Time `json:"created_at"`
}
