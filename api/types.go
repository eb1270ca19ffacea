// Package api implements the typed client for the platform's remote API.
//
// Every endpoint gets its own request and response shape. The fallback
// endpoints in particular return distinct types, so callers are forced to
// handle the fallback branch explicitly instead of re-interpreting a loose
// payload.
package api

import (
	"github.com/cccteam/ccc"
	"github.com/cccteam/ccc/accesstypes"
)

// Scope is a coarse-grained capability bucket (e.g. "bets", "audit"),
// distinct from fine-grained permission codes.
type Scope string

// User is the platform account record for the authenticated session.
type User struct {
	ID       ccc.UUID         `json:"id"`
	Username string           `json:"username"`
	Email    string           `json:"email"`
	Role     accesstypes.Role `json:"role"`
	Credit   float64          `json:"credit"`
	Active   bool             `json:"active"`
}

// Role is a role record. Role records are immutable from the client's
// perspective within a session.
type Role struct {
	ID          ccc.UUID         `json:"id"`
	Code        accesstypes.Role `json:"code"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
}

// Permission is a permission record.
type Permission struct {
	Code        accesstypes.Permission `json:"code"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Scope       Scope                  `json:"scope"`
}

// RoleAssignment links a user to a role. Only active assignments
// contribute to access decisions.
type RoleAssignment struct {
	UserID   ccc.UUID         `json:"userId"`
	RoleID   ccc.UUID         `json:"roleId"`
	RoleCode accesstypes.Role `json:"roleCode"`
	Active   bool             `json:"active"`
}

// Snapshot is the server's point-in-time answer to "what can this session
// do". Permissions lists granted permissions only.
type Snapshot struct {
	Roles       []Role                   `json:"roles"`
	Permissions []accesstypes.Permission `json:"permissions"`
	Scopes      []Scope                  `json:"scopes"`
}
