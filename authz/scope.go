package authz

import (
	"github.com/cccteam/ccc/accesstypes"
	"github.com/oddslane/session/api"
	"github.com/oddslane/session/util"
)

// Role codes known to the client.
const (
	RoleUser     = accesstypes.Role("user")
	RoleOperator = accesstypes.Role("operator")
)

// DefaultScopePolicy returns the static scope -> allowed-roles table.
//
// The table is client-side policy, not server-sourced; when the permission
// snapshot carries scopes, those server grants take precedence over the
// table. Scopes absent from both always deny.
func DefaultScopePolicy() map[api.Scope][]accesstypes.Role {
	return map[api.Scope][]accesstypes.Role{
		"bets":        {AdminRole, RoleUser},
		"predictions": {AdminRole, RoleUser},
		"matches":     {AdminRole, RoleOperator},
		"audit":       {AdminRole, RoleOperator},
		"users":       {AdminRole},
	}
}

// HasScope reports whether the session can reach the scope. The admin role
// bypasses the policy; otherwise a scope granted by the server snapshot or a
// policy-table overlap with the session's active role codes grants access.
func (c *Cache) HasScope(scope api.Scope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.roles) == 0 {
		return false
	}
	if c.holdsRoleLocked(AdminRole) {
		return true
	}
	if _, ok := c.serverScopes[scope]; ok {
		return true
	}

	allowed := c.policy[scope]
	for _, role := range c.roles {
		if util.Contains(allowed, role.Code) {
			return true
		}
	}

	return false
}
