package session

import (
	"context"

	"github.com/cccteam/ccc/accesstypes"
	"github.com/oddslane/session/api"
)

// deniedAuthorizer is the Authorizer served outside an established session:
// every check denies, refresh is a no-op.
type deniedAuthorizer struct{}

func (deniedAuthorizer) RefreshPermissions(context.Context) error {
	return nil
}

func (deniedAuthorizer) HasPermission(context.Context, accesstypes.Permission) (bool, error) {
	return false, nil
}

func (deniedAuthorizer) HasPermissionSync(accesstypes.Permission) bool {
	return false
}

func (deniedAuthorizer) HasScope(api.Scope) bool {
	return false
}

func (deniedAuthorizer) HasRole(accesstypes.Role) bool {
	return false
}
