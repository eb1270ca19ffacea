package authz

import (
	"context"

	"github.com/cccteam/ccc/accesstypes"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
)

// HasPermission reports whether the session holds the permission code.
//
// Resolution order: no active roles denies; the admin role grants; the
// snapshot's granted list grants; a cache entry younger than the TTL answers;
// otherwise the server's single-permission endpoint is asked and the result
// cached. A failed server check denies and is not retried; the error is
// returned for observability only.
func (c *Cache) HasPermission(ctx context.Context, code accesstypes.Permission) (bool, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Cache.HasPermission()")
	defer span.End()

	if allowed, resolved := c.resolveLocal(code); resolved {
		return allowed, nil
	}

	allowed, err := c.src.CheckPermission(ctx, code)
	if err != nil {
		return false, errors.Wrap(err, "SnapshotSource.CheckPermission()")
	}

	c.store(code, allowed)

	return allowed, nil
}

// HasPermissionSync answers from local state only. A code with no local
// answer denies immediately and triggers a background HasPermission call;
// once that resolves, subsequent calls (and any Watch channels) observe the
// result. The first check on an unknown code is therefore always a safe deny.
func (c *Cache) HasPermissionSync(code accesstypes.Permission) bool {
	if allowed, resolved := c.resolveLocal(code); resolved {
		return allowed
	}

	c.mu.Lock()
	if _, inflight := c.pending[code]; inflight {
		c.mu.Unlock()

		return false
	}
	c.pending[code] = struct{}{}
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.pending, code)
			c.mu.Unlock()
		}()

		ctx := context.Background()
		if _, err := c.HasPermission(ctx, code); err != nil {
			logger.Ctx(ctx).Infof("background permission check for %q failed, denied by default: %v", code, err)
		}
	}()

	return false
}

// Watch returns a channel that delivers the result of the next resolution of
// code (a background check or an explicit HasPermission call), then closes.
// It is the replacement for polling after a HasPermissionSync deny.
func (c *Cache) Watch(code accesstypes.Permission) <-chan bool {
	ch := make(chan bool, 1)

	c.mu.Lock()
	c.watchers[code] = append(c.watchers[code], ch)
	c.mu.Unlock()

	return ch
}

// resolveLocal runs resolution steps that need no network: role emptiness,
// admin fast path, snapshot grants, and unexpired cache entries. Expired
// entries are evicted here, on read.
func (c *Cache) resolveLocal(code accesstypes.Permission) (allowed, resolved bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.roles) == 0 {
		return false, true
	}
	if c.holdsRoleLocked(AdminRole) {
		return true, true
	}
	if _, ok := c.granted[code]; ok {
		return true, true
	}
	if e, ok := c.entries[code]; ok {
		if c.now().Sub(e.storedAt) < c.ttl {
			return e.allowed, true
		}
		delete(c.entries, code)
	}

	return false, false
}

func (c *Cache) store(code accesstypes.Permission, allowed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[code] = entry{allowed: allowed, storedAt: c.now()}

	for _, ch := range c.watchers[code] {
		ch <- allowed
		close(ch)
	}
	delete(c.watchers, code)
}
