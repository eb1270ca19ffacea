package session

import (
	"context"

	"github.com/cccteam/ccc/accesstypes"
	"github.com/oddslane/session/api"
	"github.com/oddslane/session/authz"
	"github.com/oddslane/session/credstore"
	"golang.org/x/oauth2"
)

// APIClient defines the remote calls the Manager depends on. It is
// implemented by api.Client.
type APIClient interface {
	Authenticate(ctx context.Context, username, password, secondFactorCode string) (*oauth2.Token, error)
	Register(ctx context.Context, username, email, password string) error
	CurrentUser(ctx context.Context) (*api.User, error)
	Logout(ctx context.Context) error

	authz.SnapshotSource
}

// CredentialStore persists the bearer token and last-known user record
// across restarts. Implemented by credstore.FileStore.
type CredentialStore interface {
	Load() (*credstore.Credentials, error)
	StoreToken(token *oauth2.Token) error
	StoreUser(user *api.User) error
	Clear() error
}

// Authorizer answers access-control questions for the current session.
// Implemented by authz.Cache.
type Authorizer interface {
	RefreshPermissions(ctx context.Context) error
	HasPermission(ctx context.Context, code accesstypes.Permission) (bool, error)
	HasPermissionSync(code accesstypes.Permission) bool
	HasScope(scope api.Scope) bool
	HasRole(code accesstypes.Role) bool
}
