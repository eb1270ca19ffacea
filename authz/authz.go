// Package authz answers access-control questions for the current session.
//
// The authoritative answer lives on the server; the cache serves synchronous
// queries from the last snapshot and a per-permission TTL cache, falling back
// to a single-permission server check for codes it has never seen. Any
// unresolved or failed check denies.
//
// A Cache belongs to exactly one session. It is created when the session is
// established and dropped when the session ends, so grants can never leak
// across a login/logout transition.
package authz

import (
	"context"
	"sync"
	"time"

	"github.com/cccteam/ccc"
	"github.com/cccteam/ccc/accesstypes"
	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/oddslane/session/api"
	"go.opentelemetry.io/otel"
)

const name = "github.com/oddslane/session/authz"

// AdminRole is the role code that bypasses every permission and scope check.
const AdminRole = accesstypes.Role("admin")

// DefaultTTL is how long a cached single-permission result is trusted.
const DefaultTTL = 5 * time.Minute

// Catalogs holds the full system role and permission catalogs, fetched only
// for admin sessions to back the management views.
type Catalogs struct {
	Roles       []api.Role
	Permissions []api.Permission
}

type entry struct {
	allowed  bool
	storedAt time.Time
}

// Cache is the session-scoped authorization cache.
type Cache struct {
	src    SnapshotSource
	userID ccc.UUID
	ttl    time.Duration
	policy map[api.Scope][]accesstypes.Role
	now    func() time.Time

	mu           sync.Mutex
	roles        []api.Role
	granted      map[accesstypes.Permission]struct{}
	serverScopes map[api.Scope]struct{}
	entries      map[accesstypes.Permission]entry
	pending      map[accesstypes.Permission]struct{}
	watchers     map[accesstypes.Permission][]chan bool
	catalogs     Catalogs
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the permission cache TTL. (default: 5m)
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithScopePolicy overrides the static scope policy table.
func WithScopePolicy(policy map[api.Scope][]accesstypes.Role) Option {
	return func(c *Cache) {
		c.policy = policy
	}
}

// NewCache creates the authorization cache for the session of userID.
func NewCache(src SnapshotSource, userID ccc.UUID, opts ...Option) *Cache {
	c := &Cache{
		src:      src,
		userID:   userID,
		ttl:      DefaultTTL,
		policy:   DefaultScopePolicy(),
		now:      time.Now,
		granted:  make(map[accesstypes.Permission]struct{}),
		entries:  make(map[accesstypes.Permission]entry),
		pending:  make(map[accesstypes.Permission]struct{}),
		watchers: make(map[accesstypes.Permission][]chan bool),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RefreshPermissions fetches the current permission snapshot and replaces
// the locally held role list, granted-permission set, and permission cache.
// Idempotent and last-write-wins: concurrent calls converge to the latest
// snapshot rather than a merge.
//
// If the snapshot endpoint fails, it falls back to the direct role-assignment
// endpoint. The fallback failing with an authorization status is expected for
// non-privileged sessions and leaves previously cached grants intact.
func (c *Cache) RefreshPermissions(ctx context.Context) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Cache.RefreshPermissions()")
	defer span.End()

	snapshot, err := c.src.PermissionSnapshot(ctx)
	if err != nil {
		return c.refreshFromAssignments(ctx, err)
	}

	c.mu.Lock()
	c.roles = snapshot.Roles
	c.granted = make(map[accesstypes.Permission]struct{}, len(snapshot.Permissions))
	for _, code := range snapshot.Permissions {
		c.granted[code] = struct{}{}
	}
	c.serverScopes = make(map[api.Scope]struct{}, len(snapshot.Scopes))
	for _, scope := range snapshot.Scopes {
		c.serverScopes[scope] = struct{}{}
	}

	// Prime the cache: the snapshot lists granted permissions only, so every
	// listed code is a fresh positive entry. Replaces the old map outright.
	entries := make(map[accesstypes.Permission]entry, len(snapshot.Permissions))
	stamp := c.now()
	for code := range c.granted {
		entries[code] = entry{allowed: true, storedAt: stamp}
	}
	c.entries = entries

	isAdmin := c.holdsRoleLocked(AdminRole)
	c.mu.Unlock()

	if isAdmin {
		c.refreshCatalogs(ctx)
	}

	return nil
}

// refreshFromAssignments is the degraded refresh path: only the role
// assignments are available, the permission cache is left as-is.
func (c *Cache) refreshFromAssignments(ctx context.Context, snapshotErr error) error {
	assignments, err := c.src.RoleAssignments(ctx, c.userID)
	if err != nil {
		if httpio.HasUnauthorized(err) || httpio.HasForbidden(err) {
			// Expected for non-privileged sessions. Previously cached grants
			// stay available until their TTL runs out.
			logger.Ctx(ctx).Infof("permission snapshot unavailable (%v); role assignment fallback not permitted for this session", snapshotErr)

			return nil
		}

		return errors.Wrap(err, "SnapshotSource.RoleAssignments()")
	}

	roles := make([]api.Role, 0, len(assignments))
	for _, a := range assignments {
		if !a.Active {
			continue
		}
		roles = append(roles, api.Role{ID: a.RoleID, Code: a.RoleCode})
	}

	c.mu.Lock()
	c.roles = roles
	c.mu.Unlock()

	logger.Ctx(ctx).Infof("permission snapshot unavailable (%v); refreshed roles from assignment fallback", snapshotErr)

	return nil
}

// refreshCatalogs loads the full role/permission catalogs for admin
// management views. Failure only degrades those views, so it is logged and
// swallowed.
func (c *Cache) refreshCatalogs(ctx context.Context) {
	roles, err := c.src.RoleCatalog(ctx)
	if err != nil {
		logger.Ctx(ctx).Errorf("admin catalog fetch failed, management views degraded: %v", err)

		return
	}
	permissions, err := c.src.PermissionCatalog(ctx)
	if err != nil {
		logger.Ctx(ctx).Errorf("admin catalog fetch failed, management views degraded: %v", err)

		return
	}

	c.mu.Lock()
	c.catalogs = Catalogs{Roles: roles, Permissions: permissions}
	c.mu.Unlock()
}

// HasRole reports whether the session holds an active role with the given
// code. Answered entirely from the roles loaded by RefreshPermissions.
func (c *Cache) HasRole(code accesstypes.Role) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.holdsRoleLocked(code)
}

// Roles returns the active role records for the session.
func (c *Cache) Roles() []api.Role {
	c.mu.Lock()
	defer c.mu.Unlock()

	roles := make([]api.Role, len(c.roles))
	copy(roles, c.roles)

	return roles
}

// Catalogs returns the admin role/permission catalogs. Empty for non-admin
// sessions or when the catalog fetch failed.
func (c *Cache) Catalogs() Catalogs {
	c.mu.Lock()
	defer c.mu.Unlock()

	catalogs := Catalogs{
		Roles:       make([]api.Role, len(c.catalogs.Roles)),
		Permissions: make([]api.Permission, len(c.catalogs.Permissions)),
	}
	copy(catalogs.Roles, c.catalogs.Roles)
	copy(catalogs.Permissions, c.catalogs.Permissions)

	return catalogs
}

func (c *Cache) holdsRoleLocked(code accesstypes.Role) bool {
	for _, role := range c.roles {
		if role.Code == code {
			return true
		}
	}

	return false
}
