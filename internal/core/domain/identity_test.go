package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityChange_SelfOriginated(t *testing.T) {
	change := IdentityChange{
		Type:      ChangeUpdate,
		SubjectID: "user-1",
		UpdatedFields: []string{
			"lookupFields.accessToken",
			"lookupFields.refreshToken",
			"lookupFields.expiresAt",
			"lookupFields.serviceId",
		},
	}

	assert.True(t, change.SelfOriginated())
}

func TestIdentityChange_MixedFields_NotSelfOriginated(t *testing.T) {
	change := IdentityChange{
		Type:          ChangeUpdate,
		SubjectID:     "user-1",
		UpdatedFields: []string{"lookupFields.accessToken", "username"},
	}

	assert.False(t, change.SelfOriginated())
}

func TestIdentityChange_InsertNeverSelfOriginated(t *testing.T) {
	change := IdentityChange{Type: ChangeInsert, SubjectID: "user-1"}

	assert.False(t, change.SelfOriginated())
}

func TestIdentityChange_ReplaceNeverSelfOriginated(t *testing.T) {
	change := IdentityChange{
		Type:          ChangeReplace,
		SubjectID:     "user-1",
		UpdatedFields: []string{"lookupFields.accessToken"},
	}

	assert.False(t, change.SelfOriginated())
}

func TestIdentityChange_UpdateWithoutFields_NotSelfOriginated(t *testing.T) {
	change := IdentityChange{Type: ChangeUpdate, SubjectID: "user-1"}

	assert.False(t, change.SelfOriginated())
}

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "insert", ChangeInsert.String())
	assert.Equal(t, "update", ChangeUpdate.String())
	assert.Equal(t, "replace", ChangeReplace.String())
	assert.Equal(t, "unknown", ChangeType(99).String())
}
