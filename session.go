// Package session owns the authenticated-session lifecycle for the platform
// client: login, registration, logout, boot-time restore, and the handoff to
// the per-session authorization cache.
package session

import (
	"context"
	"sync"

	"github.com/cccteam/ccc"
	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"github.com/go-playground/errors/v5"
	"github.com/go-playground/validator/v10"
	"github.com/oddslane/session/api"
	"github.com/oddslane/session/authz"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
)

const name = "github.com/oddslane/session"

// Manager owns the session state machine. All methods are safe for
// concurrent use.
type Manager struct {
	client    APIClient
	store     CredentialStore
	validate  *validator.Validate
	authzOpts []authz.Option
	authorize func(src authz.SnapshotSource, userID ccc.UUID) Authorizer

	mu         sync.Mutex
	state      State
	user       *api.User
	token      *oauth2.Token
	authorizer Authorizer
	welcome    bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithAuthzOptions forwards options to the per-session authorization cache.
func WithAuthzOptions(opts ...authz.Option) Option {
	return func(m *Manager) {
		m.authzOpts = append(m.authzOpts, opts...)
	}
}

// WithAuthorizerFactory overrides how the per-session Authorizer is built.
func WithAuthorizerFactory(f func(src authz.SnapshotSource, userID ccc.UUID) Authorizer) Option {
	return func(m *Manager) {
		m.authorize = f
	}
}

// New creates a Manager. build receives the manager's own token source and
// returns the API client: the client needs the session's bearer token, and
// the session owns it.
func New(store CredentialStore, build func(src oauth2.TokenSource) APIClient, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		validate: validator.New(),
		state:    StateUnauthenticated,
	}
	m.authorize = func(src authz.SnapshotSource, userID ccc.UUID) Authorizer {
		return authz.NewCache(src, userID, m.authzOpts...)
	}

	for _, opt := range opts {
		opt(m)
	}

	m.client = build(m)

	return m
}

// Token implements oauth2.TokenSource over the session's bearer token.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token == nil {
		return nil, errors.New("no active session")
	}
	token := *m.token

	return &token, nil
}

// Login exchanges credentials for a session. If the account requires a
// second factor, it fails with api.ErrSecondFactorRequired and the caller
// re-invokes with the code attached; the password was already accepted and
// must not be re-prompted. On success the token and user record are
// persisted and the authorization cache is primed for the new session.
func (m *Manager) Login(ctx context.Context, username, password, secondFactorCode string) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.Login()")
	defer span.End()

	m.setState(StateAuthenticating)

	token, err := m.client.Authenticate(ctx, username, password, secondFactorCode)
	if err != nil {
		m.setState(StateUnauthenticated)

		// Credential and second-factor conditions propagate untouched for
		// form-level display.
		return err
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	if err := m.store.StoreToken(token); err != nil {
		// The session works without persistence; it just won't survive a
		// restart.
		logger.Ctx(ctx).Errorf("failed to persist bearer token: %v", err)
	}

	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		m.clearLocal()

		return errors.Wrap(err, "APIClient.CurrentUser()")
	}

	if err := m.store.StoreUser(user); err != nil {
		logger.Ctx(ctx).Errorf("failed to persist user record: %v", err)
	}

	m.mu.Lock()
	m.user = user
	m.state = StateAuthenticatedLoading
	m.welcome = true
	authorizer := m.authorize(m.client, user.ID)
	m.authorizer = authorizer
	m.mu.Unlock()

	// Authorization-fetch failures are absorbed: the cache degrades to
	// deny-by-default, the session itself is established.
	if err := authorizer.RefreshPermissions(ctx); err != nil {
		logger.Ctx(ctx).Errorf("failed to prime authorization cache: %v", err)
	}

	m.setState(StateAuthenticatedReady)
	logger.Ctx(ctx).Infof("session established for %s", user.Username)

	return nil
}

// Register creates an account. It does not establish a session; the user
// must log in explicitly afterward.
func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.Register()")
	defer span.End()

	input := struct {
		Username string `validate:"required,min=3,max=64"`
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}{
		Username: username,
		Email:    email,
		Password: password,
	}
	if err := m.validate.Struct(input); err != nil {
		return httpio.NewBadRequestMessageWithError(err, "invalid registration details")
	}

	if err := m.client.Register(ctx, username, email, password); err != nil {
		return errors.Wrap(err, "APIClient.Register()")
	}

	return nil
}

// Logout ends the session. In-memory state is cleared first so dependent UI
// reacts immediately, the server is then notified best-effort, and persisted
// state is cleared unconditionally: a network failure can never leave the
// client stuck authenticated.
func (m *Manager) Logout(ctx context.Context) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.Logout()")
	defer span.End()

	m.clearLocal()

	if err := m.client.Logout(ctx); err != nil {
		logger.Ctx(ctx).Infof("server logout notification failed, local state cleared anyway: %v", err)
	}

	if err := m.store.Clear(); err != nil {
		return errors.Wrap(err, "CredentialStore.Clear()")
	}

	return nil
}

// RefreshUser re-fetches the user record with the current token. Failure
// means the token no longer works; the caller should treat the session as
// terminated.
func (m *Manager) RefreshUser(ctx context.Context) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.RefreshUser()")
	defer span.End()

	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		return errors.Wrap(err, "APIClient.CurrentUser()")
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	if err := m.store.StoreUser(user); err != nil {
		logger.Ctx(ctx).Errorf("failed to persist user record: %v", err)
	}

	return nil
}

// Restore silently re-validates persisted credentials at boot. A missing or
// rejected credential leaves the session unauthenticated without error; the
// persisted user record is made visible before the network round trip so the
// first render is instant.
func (m *Manager) Restore(ctx context.Context) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Manager.Restore()")
	defer span.End()

	creds, err := m.store.Load()
	if err != nil {
		return errors.Wrap(err, "CredentialStore.Load()")
	}
	if creds.Token == nil {
		return nil
	}

	m.mu.Lock()
	m.token = creds.Token
	m.user = creds.User
	m.state = StateAuthenticatedLoading
	m.mu.Unlock()

	if err := m.RefreshUser(ctx); err != nil {
		logger.Ctx(ctx).Infof("silent re-validation failed, session terminated: %v", err)
		m.clearLocal()
		if err := m.store.Clear(); err != nil {
			return errors.Wrap(err, "CredentialStore.Clear()")
		}

		return nil
	}

	m.mu.Lock()
	userID := m.user.ID
	authorizer := m.authorize(m.client, userID)
	m.authorizer = authorizer
	m.mu.Unlock()

	if err := authorizer.RefreshPermissions(ctx); err != nil {
		logger.Ctx(ctx).Errorf("failed to prime authorization cache: %v", err)
	}

	m.setState(StateAuthenticatedReady)

	return nil
}

// User returns the current user record, or nil when unauthenticated.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil
	}
	user := *m.user

	return &user
}

// IsAuthenticated reports whether a session is established.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.Authenticated()
}

// IsLoading reports whether a login or session load is in flight.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.Loading()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Authz returns the session's Authorizer. Outside an established session it
// returns a denying implementation, so route guards never need a nil check.
func (m *Manager) Authz() Authorizer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.authorizer == nil {
		return deniedAuthorizer{}
	}

	return m.authorizer
}

// ConsumeWelcome returns the one-shot "just logged in" flag and clears it.
// The first screen rendered after login consumes it.
func (m *Manager) ConsumeWelcome() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	welcome := m.welcome
	m.welcome = false

	return welcome
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = s
}

// clearLocal drops all in-memory session state. The authorizer is dropped
// with it, so a previous session's grants cannot leak into the next one.
func (m *Manager) clearLocal() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateUnauthenticated
	m.user = nil
	m.token = nil
	m.authorizer = nil
	m.welcome = false
}
