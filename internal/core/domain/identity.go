package domain

import "strings"

// LookupFieldPrefix is the namespace under which the lookup copy of the
// delegated credential lives inside an identity record. Updates whose
// changed keys all carry this prefix are the reconciler's own writes.
const LookupFieldPrefix = "lookupFields"

// IdentityRecord is the full identity-store document for one subject, as
// re-fetched by the reconciler. Only the fields this bridge cares about are
// modelled; the store may carry arbitrary others.
type IdentityRecord struct {
	ID       string `bson:"_id"`
	Username string `bson:"username"`

	// OAuthCredential is the authoritative CRM grant written by the OAuth
	// handshake, upstream of this bridge. Nil when the subject has never
	// linked a CRM account.
	OAuthCredential *OAuthCredential `bson:"oauthCredential,omitempty"`

	// Lookup is the denormalized copy maintained by the reconciler.
	Lookup *LookupRecord `bson:"lookupFields,omitempty"`
}

// OAuthCredential is the authoritative credential substructure of an
// identity record.
type OAuthCredential struct {
	ID           string `bson:"id"`
	AccessToken  string `bson:"accessToken"`
	RefreshToken string `bson:"refreshToken"`
	// ExpiresAt is epoch milliseconds.
	ExpiresAt int64 `bson:"expiresAt"`
}

// ChangeType tags an identity change event.
type ChangeType int

// Change event types. Deletes are filtered out upstream: a removed primary
// record does not retract the lookup copy.
const (
	ChangeInsert ChangeType = iota
	ChangeUpdate
	ChangeReplace
)

// String returns the change type name.
func (t ChangeType) String() string {
	switch t {
	case ChangeInsert:
		return "insert"
	case ChangeUpdate:
		return "update"
	case ChangeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// IdentityChange is one notification from the identity-store change feed.
// It carries only the subject key and, for updates, the changed field
// names; consumers re-fetch the full record when they need current state.
type IdentityChange struct {
	Type      ChangeType
	SubjectID string
	// UpdatedFields holds the changed field paths for ChangeUpdate events.
	// Empty for inserts and replaces.
	UpdatedFields []string
}

// SelfOriginated reports whether the change is one of the reconciler's own
// lookup writes: an update whose changed keys all live under the
// lookup-field namespace. The check is a prefix heuristic; a genuine
// external writer using keys under the same namespace would be missed.
func (c IdentityChange) SelfOriginated() bool {
	if c.Type != ChangeUpdate || len(c.UpdatedFields) == 0 {
		return false
	}
	for _, field := range c.UpdatedFields {
		if !strings.HasPrefix(field, LookupFieldPrefix) {
			return false
		}
	}
	return true
}
