package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cccteam/ccc"
	"github.com/cccteam/ccc/accesstypes"
	"github.com/cccteam/httpio"
	"github.com/go-playground/errors/v5"
	"github.com/gofrs/uuid"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
)

const name = "github.com/oddslane/session/api"

// Error condition codes returned in the body of a failed call.
const (
	codeInvalidCredentials   = "invalid_credentials"
	codeSecondFactorRequired = "second_factor_required"
	codeSecondFactorInvalid  = "second_factor_invalid"
)

// Client is the typed HTTP client for the platform API. Authenticated calls
// take their bearer token from the configured oauth2.TokenSource, so the
// token can change (login, logout) without rebuilding the client.
type Client struct {
	baseURL string
	hc      *http.Client
	src     oauth2.TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client. (default: 10s timeout)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// NewClient creates a Client for the API at baseURL. src supplies the bearer
// token for authenticated endpoints; it may return an error while no session
// is established.
func NewClient(baseURL string, src oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 10 * time.Second},
		src:     src,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type authenticateResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Authenticate exchanges credentials for a bearer token. A 2FA-enabled
// account fails with ErrSecondFactorRequired on the first call; the caller
// re-invokes with the code attached. Wrong credentials surface as an
// unauthorized message, transport failures as wrapped errors.
func (c *Client) Authenticate(ctx context.Context, username, password, secondFactorCode string) (*oauth2.Token, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.Authenticate()")
	defer span.End()

	req := struct {
		Username         string `json:"username"`
		Password         string `json:"password"`
		SecondFactorCode string `json:"secondFactorCode,omitempty"`
	}{
		Username:         username,
		Password:         password,
		SecondFactorCode: secondFactorCode,
	}

	res := &authenticateResponse{}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", req, res, false); err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		Expiry:      res.ExpiresAt,
	}, nil
}

// Register creates a new account. It does not establish a session; the user
// must log in explicitly afterward.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.Register()")
	defer span.End()

	req := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{
		Username: username,
		Email:    email,
		Password: password,
	}

	return c.do(ctx, http.MethodPost, "/v1/auth/register", req, nil, false)
}

// CurrentUser fetches the account record for the session's bearer token.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.CurrentUser()")
	defer span.End()

	user := &User{}
	if err := c.do(ctx, http.MethodGet, "/v1/users/me", nil, user, true); err != nil {
		return nil, err
	}

	return user, nil
}

// PermissionSnapshot fetches the session's current roles, granted
// permissions, and reachable scopes in a single call.
func (c *Client) PermissionSnapshot(ctx context.Context) (*Snapshot, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.PermissionSnapshot()")
	defer span.End()

	snapshot := &Snapshot{}
	if err := c.do(ctx, http.MethodGet, "/v1/auth/permissions", nil, snapshot, true); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// RoleAssignments fetches the role assignments for a user directly. This is
// an admin-privileged endpoint; it is expected to fail for non-privileged
// sessions.
func (c *Client) RoleAssignments(ctx context.Context, userID ccc.UUID) ([]RoleAssignment, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.RoleAssignments()")
	defer span.End()

	var assignments []RoleAssignment
	path := fmt.Sprintf("/v1/users/%s/roles", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &assignments, true); err != nil {
		return nil, err
	}

	return assignments, nil
}

// CheckPermission asks the server whether the session holds a single
// permission code.
func (c *Client) CheckPermission(ctx context.Context, code accesstypes.Permission) (bool, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.CheckPermission()")
	defer span.End()

	res := struct {
		Allowed bool `json:"allowed"`
	}{}
	path := "/v1/auth/check?code=" + url.QueryEscape(string(code))
	if err := c.do(ctx, http.MethodGet, path, nil, &res, true); err != nil {
		return false, err
	}

	return res.Allowed, nil
}

// RoleCatalog fetches the full system role catalog. Admin-privileged.
func (c *Client) RoleCatalog(ctx context.Context) ([]Role, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.RoleCatalog()")
	defer span.End()

	var roles []Role
	if err := c.do(ctx, http.MethodGet, "/v1/roles", nil, &roles, true); err != nil {
		return nil, err
	}

	return roles, nil
}

// PermissionCatalog fetches the full system permission catalog.
// Admin-privileged.
func (c *Client) PermissionCatalog(ctx context.Context) ([]Permission, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.PermissionCatalog()")
	defer span.End()

	var permissions []Permission
	if err := c.do(ctx, http.MethodGet, "/v1/permissions", nil, &permissions, true); err != nil {
		return nil, err
	}

	return permissions, nil
}

// Logout notifies the server that the session is over. Best effort; callers
// clear local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	ctx, span := otel.Tracer(name).Start(ctx, "Client.Logout()")
	defer span.End()

	return c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, true)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "json.Marshal()")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "http.NewRequestWithContext()")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, err := uuid.NewV4(); err == nil {
		req.Header.Set("X-Request-ID", id.String())
	}

	if authed {
		token, err := c.src.Token()
		if err != nil {
			return httpio.NewUnauthorizedMessageWithError(err, "no active session")
		}
		token.SetAuthHeader(req)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return errors.Wrap(err, "http.Client.Do()")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return responseError(res)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return errors.Wrap(err, "json.Decoder.Decode()")
		}
	}

	return nil
}

// responseError maps a failed response onto the client error taxonomy. The
// second factor conditions are distinguished from credential failures so the
// caller never re-prompts for a password that was already accepted.
func responseError(res *http.Response) error {
	body := struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{}
	// A malformed error body degrades to a status-only error.
	_ = json.NewDecoder(io.LimitReader(res.Body, 4096)).Decode(&body)

	switch body.Code {
	case codeSecondFactorRequired:
		return ErrSecondFactorRequired
	case codeSecondFactorInvalid:
		return ErrSecondFactorInvalid
	case codeInvalidCredentials:
		return httpio.NewUnauthorizedMessage("invalid username or password")
	}

	switch res.StatusCode {
	case http.StatusUnauthorized:
		return httpio.NewUnauthorizedMessage("not authorized")
	case http.StatusForbidden:
		return httpio.NewForbiddenMessage("forbidden")
	case http.StatusNotFound:
		return httpio.NewNotFoundMessage("not found")
	default:
		return errors.New(fmt.Sprintf("unexpected response status %d: %s", res.StatusCode, body.Message))
	}
}
