package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Delegated credential errors.
	//
	// ErrNotLinked and ErrNotSynced are deliberately separate outcomes:
	// collapsing them would leave the caller unable to tell "connect your
	// CRM account first" apart from "linked a moment ago, retry shortly".

	// ErrNotLinked indicates the subject has never linked a CRM account.
	ErrNotLinked = errors.New("no linked CRM account")

	// ErrNotSynced indicates a link exists but the credential has not yet
	// propagated to the lookup fields.
	ErrNotSynced = errors.New("credential not yet synchronized")

	// ErrNoGrant indicates the subject has not supplied a personal access
	// grant for the identity platform.
	ErrNoGrant = errors.New("no personal access grant configured")

	// ErrTokenRefreshFailed indicates the refresh-token exchange failed.
	// Callers holding a stale credential may still attempt to use it.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Delegated action errors.

	// ErrNotAuthorized indicates the CRM role model denies the requested
	// action category. Terminal for this attempt; not a network failure.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrRemoteFailed indicates the remote CRM call failed (network error,
	// unexpected status, or malformed response).
	ErrRemoteFailed = errors.New("remote CRM request failed")
)
