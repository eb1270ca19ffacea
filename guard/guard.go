// Package guard provides route-guard middleware over the session's
// authorization cache. Guards answer from local cache state only, so a
// routing decision never blocks on the network; an unknown permission denies
// now and resolves in the background for the next navigation.
package guard

import (
	"net/http"
	"strings"

	"github.com/cccteam/ccc/accesstypes"
	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/oddslane/session/api"
	"go.opentelemetry.io/otel"
)

const name = "github.com/oddslane/session/guard"

// Authorizer is the subset of the authorization cache the guards consult.
type Authorizer interface {
	HasPermissionSync(code accesstypes.Permission) bool
	HasScope(scope api.Scope) bool
	HasRole(code accesstypes.Role) bool
}

// Session reports session state and hands out the session's Authorizer.
type Session interface {
	IsAuthenticated() bool
	Authz() Authorizer
}

// Guard builds access-control middleware for a session.
type Guard struct {
	session Session
}

// New creates a Guard over the session.
func New(session Session) *Guard {
	return &Guard{session: session}
}

// RequireAuthenticated rejects requests without an established session.
func (g *Guard) RequireAuthenticated(next http.Handler) http.Handler {
	return g.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Guard.RequireAuthenticated()")
		defer span.End()

		if !g.session.IsAuthenticated() {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewUnauthorizedMessage("authentication required"))
		}

		next.ServeHTTP(w, r.WithContext(ctx))

		return nil
	})
}

// RequirePermission rejects requests unless the session holds the permission
// code. The check is cache-only; a cold code denies this request and
// resolves in the background.
func (g *Guard) RequirePermission(code accesstypes.Permission) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.handle(func(w http.ResponseWriter, r *http.Request) error {
			ctx, span := otel.Tracer(name).Start(r.Context(), "Guard.RequirePermission()")
			defer span.End()

			if !g.session.Authz().HasPermissionSync(code) {
				return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewForbiddenMessage("permission denied"))
			}

			next.ServeHTTP(w, r.WithContext(ctx))

			return nil
		})
	}
}

// RequireScope rejects requests unless the session can reach the scope.
func (g *Guard) RequireScope(scope api.Scope) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.handle(func(w http.ResponseWriter, r *http.Request) error {
			ctx, span := otel.Tracer(name).Start(r.Context(), "Guard.RequireScope()")
			defer span.End()

			if !g.session.Authz().HasScope(scope) {
				return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewForbiddenMessage("scope not permitted"))
			}

			next.ServeHTTP(w, r.WithContext(ctx))

			return nil
		})
	}
}

// RequireRole rejects requests unless the session holds an active role with
// the given code.
func (g *Guard) RequireRole(code accesstypes.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.handle(func(w http.ResponseWriter, r *http.Request) error {
			ctx, span := otel.Tracer(name).Start(r.Context(), "Guard.RequireRole()")
			defer span.End()

			if !g.session.Authz().HasRole(code) {
				return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewForbiddenMessage("role not permitted"))
			}

			next.ServeHTTP(w, r.WithContext(ctx))

			return nil
		})
	}
}

// handle logs any error coming from the guard handlers.
func (g *Guard) handle(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handler(w, r); err != nil {
			if httpio.CauseIsError(err) {
				logger.Req(r).Error(err)
			} else {
				logger.Req(r).Infof("['%s']", strings.Join(httpio.Messages(err), "', '"))
			}
		}
	}
}
