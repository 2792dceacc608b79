// Package authsvc is the resource client for the authentication service:
// login, logout, profile, the admin gate, and admin user management.
//
// Credential scheme for this boundary: Authorization bearer token, always.
package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/filedeck/filedeck/apiclient"
	"github.com/filedeck/filedeck/metrics"
	"github.com/filedeck/filedeck/session"
)

// Credentials is one login attempt.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the success body of POST /api/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

// Session converts the login result into a session value, validating the
// token shape and role.
func (r LoginResult) Session() (session.Session, error) {
	if r.AccessToken == "" {
		return session.Session{}, fmt.Errorf("login response carried no token")
	}
	if r.TokenType != "Bearer" {
		return session.Session{}, fmt.Errorf("unexpected token type %q", r.TokenType)
	}
	role, err := session.ParseRole(r.Role)
	if err != nil {
		return session.Session{}, err
	}
	return session.Session{Token: r.AccessToken, Role: role}, nil
}

// Profile is the success body of GET /api/profile. The claims map is opaque
// to the client; it is rendered, never interpreted.
type Profile struct {
	Message string         `json:"message"`
	User    map[string]any `json:"user"`
}

// UserRecord is one row of the admin user list.
type UserRecord struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewUser is the body of an admin create-user request.
type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Client wraps the auth service REST endpoints. One instance per target
// deployment; the session store is injected, never looked up globally.
type Client struct {
	baseURL string
	http    *http.Client
	builder *apiclient.Builder
	logger  *zap.Logger
}

// NewClient constructs an auth service client bound to a session store.
func NewClient(baseURL string, store *session.Store, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = apiclient.NewHTTPClient(0)
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		builder: apiclient.NewBuilder(store, apiclient.SchemeBearer),
		logger:  logger,
	}
}

// Login authenticates the credentials. Local format checks run first as a
// UX short-circuit; the server remains the authority. On success the result
// carries a non-empty bearer token and a parseable role.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	const op = "login"
	if err := ValidateCredentials(creds); err != nil {
		metrics.ObserveOp("auth", op, "rejected", 0)
		return LoginResult{}, err
	}

	body, err := json.Marshal(creds)
	if err != nil {
		return LoginResult{}, apiclient.NetworkFailure(op, err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiclient.JoinURL(c.baseURL, "/api/login"), bytes.NewReader(body))
	if err != nil {
		return LoginResult{}, apiclient.NetworkFailure(op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Submitting login request", zap.String("username", creds.Username))

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveOp("auth", op, "error", time.Since(start).Seconds())
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return LoginResult{}, apiclient.WrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveOp("auth", op, "failure", time.Since(start).Seconds())
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return LoginResult{}, decodeLoginFailure(resp)
	}

	var result LoginResult
	if apiErr := apiclient.DecodeJSON(op, resp, &result); apiErr != nil {
		metrics.ObserveOp("auth", op, "error", time.Since(start).Seconds())
		return LoginResult{}, apiErr
	}

	metrics.ObserveOp("auth", op, "success", time.Since(start).Seconds())
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return result, nil
}

// decodeLoginFailure maps a failed login response. Unlike the shared
// DecodeError path, a 401 here means the credentials were rejected, not
// that a session expired, so the server's message is surfaced verbatim
// when one is present.
func decodeLoginFailure(resp *http.Response) *apiclient.Error {
	apiErr := apiclient.DecodeError("login", resp)
	if apiErr.Kind != apiclient.KindUnauthenticated {
		return apiErr
	}
	return &apiclient.Error{
		Kind:    apiclient.KindRemoteOperation,
		Op:      "login",
		Status:  resp.StatusCode,
		Message: apiErr.ServerMessage("invalid credentials"),
	}
}

// Logout tells the server the session is over. The endpoint is advisory
// and unauthenticated; callers clear their session store regardless of the
// outcome, before or after this call returns.
func (c *Client) Logout(ctx context.Context) error {
	const op = "logout"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiclient.JoinURL(c.baseURL, "/api/logout"), nil)
	if err != nil {
		return apiclient.NetworkFailure(op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apiclient.WrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return apiclient.DecodeError(op, resp)
	}
	metrics.SessionsCleared.Inc()
	return nil
}

// Profile fetches the authenticated profile.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	const op = "load profile"
	start := time.Now()

	req, err := c.newAuthedRequest(ctx, http.MethodGet, "/api/profile", nil)
	if err != nil {
		return Profile{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveOp("auth", "profile", "error", time.Since(start).Seconds())
		return Profile{}, apiclient.WrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveOp("auth", "profile", "failure", time.Since(start).Seconds())
		return Profile{}, apiclient.DecodeError(op, resp)
	}

	var p Profile
	if apiErr := apiclient.DecodeJSON(op, resp, &p); apiErr != nil {
		return Profile{}, apiErr
	}
	metrics.ObserveOp("auth", "profile", "success", time.Since(start).Seconds())
	return p, nil
}

// AdminCheck probes the admin-only endpoint. A 403 means the session is
// authenticated but not an admin; the server is the sole authority on that.
func (c *Client) AdminCheck(ctx context.Context) error {
	const op = "admin check"
	req, err := c.newAuthedRequest(ctx, http.MethodGet, "/api/admin", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apiclient.WrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiclient.DecodeError(op, resp)
	}
	return nil
}

// ListUsers fetches all user records for the admin view.
func (c *Client) ListUsers(ctx context.Context) ([]UserRecord, error) {
	const op = "list users"
	start := time.Now()

	req, err := c.newAuthedRequest(ctx, http.MethodGet, "/api/admin/users", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveOp("auth", "list_users", "error", time.Since(start).Seconds())
		return nil, apiclient.WrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveOp("auth", "list_users", "failure", time.Since(start).Seconds())
		return nil, apiclient.DecodeError(op, resp)
	}

	var users []UserRecord
	if apiErr := apiclient.DecodeJSON(op, resp, &users); apiErr != nil {
		return nil, apiErr
	}
	metrics.ObserveOp("auth", "list_users", "success", time.Since(start).Seconds())
	return users, nil
}

// CreateUser creates a user record via the admin endpoint. Local checks
// mirror the admin form rules; the server re-validates.
func (c *Client) CreateUser(ctx context.Context, nu NewUser) (UserRecord, error) {
	const op = "create user"
	if err := ValidateNewUser(nu); err != nil {
		return UserRecord{}, err
	}

	body, err := json.Marshal(nu)
	if err != nil {
		return UserRecord{}, apiclient.NetworkFailure(op, err)
	}

	start := time.Now()
	req, err := c.newAuthedRequest(ctx, http.MethodPost, "/api/admin/users", bytes.NewReader(body))
	if err != nil {
		return UserRecord{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveOp("auth", "create_user", "error", time.Since(start).Seconds())
		return UserRecord{}, apiclient.WrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		metrics.ObserveOp("auth", "create_user", "failure", time.Since(start).Seconds())
		return UserRecord{}, apiclient.DecodeError(op, resp)
	}

	var created UserRecord
	if apiErr := apiclient.DecodeJSON(op, resp, &created); apiErr != nil {
		return UserRecord{}, apiErr
	}
	metrics.ObserveOp("auth", "create_user", "success", time.Since(start).Seconds())
	return created, nil
}

// DeleteUser removes a user record via the admin endpoint.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	const op = "delete user"
	start := time.Now()

	req, err := c.newAuthedRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", id), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveOp("auth", "delete_user", "error", time.Since(start).Seconds())
		return apiclient.WrapTransport(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		metrics.ObserveOp("auth", "delete_user", "failure", time.Since(start).Seconds())
		return apiclient.DecodeError(op, resp)
	}
	metrics.ObserveOp("auth", "delete_user", "success", time.Since(start).Seconds())
	return nil
}

// newAuthedRequest builds a request with the bearer credential attached,
// failing before any network call when no session exists.
func (c *Client) newAuthedRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, apiclient.JoinURL(c.baseURL, path), body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, apiclient.JoinURL(c.baseURL, path), nil)
	}
	if err != nil {
		return nil, apiclient.NetworkFailure(method+" "+path, err)
	}
	if err := c.builder.Apply(req, nil); err != nil {
		return nil, apiclient.Unauthenticated(method+" "+path, 0, err)
	}
	return req, nil
}
