package authz

import (
	"context"

	"github.com/cccteam/ccc"
	"github.com/cccteam/ccc/accesstypes"
	"github.com/oddslane/session/api"
)

// SnapshotSource defines the remote calls the cache depends on. It is
// implemented by api.Client.
type SnapshotSource interface {
	// PermissionSnapshot returns the session's roles, granted permissions,
	// and reachable scopes.
	PermissionSnapshot(ctx context.Context) (*api.Snapshot, error)
	// RoleAssignments returns a user's role assignments directly. This is a
	// privileged fallback and is expected to fail for most sessions.
	RoleAssignments(ctx context.Context, userID ccc.UUID) ([]api.RoleAssignment, error)
	// CheckPermission checks a single permission code against the session.
	CheckPermission(ctx context.Context, code accesstypes.Permission) (bool, error)
	// RoleCatalog returns the full system role catalog.
	RoleCatalog(ctx context.Context) ([]api.Role, error)
	// PermissionCatalog returns the full system permission catalog.
	PermissionCatalog(ctx context.Context) ([]api.Permission, error)
}
