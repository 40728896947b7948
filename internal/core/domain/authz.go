package domain

// TaskCategory is the CRM action category guarding task creation.
const TaskCategory = "Tasks"

// AccessActionName is the role action name that grants category access.
const AccessActionName = "access"

// Deny sentinel values for a role action's access override. Any other
// override value on a matching action grants access.
const (
	AccessOverrideDenyAll   = -99
	AccessOverrideDenyOwner = -98
)

// RoleAction is one permission entry inside a configured CRM role.
type RoleAction struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	AccessOverride int    `json:"access_override"`
}

// Role is one configured CRM role with its permission entries.
type Role struct {
	Actions []RoleAction `json:"actions"`
}

// RoleSet is the remote CRM's role configuration for one linked account.
type RoleSet struct {
	TotalRoles int    `json:"total_roles"`
	Roles      []Role `json:"roles"`
}

// AuthorizationDecision is the ephemeral outcome of an access evaluation.
// Computed fresh on every delegated action attempt, never persisted.
type AuthorizationDecision struct {
	Allowed bool
	// Reason explains a deny decision. Empty when allowed.
	Reason string
}

// EvaluateAccess decides whether the role set permits the given action
// category. The two-tier default is deliberate: an unconfigured deployment
// (no roles at all) allows everything, while a deployment with roles that
// are silent on this category denies it.
func EvaluateAccess(roles *RoleSet, category string) AuthorizationDecision {
	if roles == nil || roles.TotalRoles == 0 || len(roles.Roles) == 0 {
		return AuthorizationDecision{Allowed: true}
	}

	for _, role := range roles.Roles {
		for _, action := range role.Actions {
			if action.Name != AccessActionName || action.Category != category {
				continue
			}
			if action.AccessOverride == AccessOverrideDenyAll ||
				action.AccessOverride == AccessOverrideDenyOwner {
				return AuthorizationDecision{
					Allowed: false,
					Reason:  "access override denies category " + category,
				}
			}
			return AuthorizationDecision{Allowed: true}
		}
	}

	return AuthorizationDecision{
		Allowed: false,
		Reason:  "no role grants access to category " + category,
	}
}
