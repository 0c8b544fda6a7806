// Package client implements the NoteMate API client and its credential
// orchestration: it attaches the access token to outgoing calls, detects
// expiry, exchanges the refresh token for a new access token exactly once per
// failure and replays the original call, falling back to a forced logout when
// the exchange itself is rejected.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Header names of the credential protocol, mirroring the server.
const (
	headerAccessToken  = "x-access-token"
	headerRefreshToken = "x-refresh-token"
	headerUserID       = "_id"
)

const refreshPath = "/users/me/access-token"

var (
	// ErrLoggedOut is returned when the refresh credential itself was
	// rejected. All stored credentials have been cleared and no further
	// request was attempted.
	ErrLoggedOut = errors.New("logged out: refresh credential rejected")

	// ErrNoCredentials is returned when a refresh is needed but no refresh
	// token or user id is stored.
	ErrNoCredentials = errors.New("refresh token and/or user id missing")
)

// User is the public profile returned by the API
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client is an HTTP client for the NoteMate API. Its Do method runs the
// credential state machine; the typed helpers (Login, ListNotes, ...) are
// built on top of it.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	store        *CredentialStore
	refreshGroup singleflight.Group
	onLogout     func()
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithOnLogout sets a hook invoked after a forced logout has cleared the
// stored credentials (the navigate-to-login analog).
func WithOnLogout(fn func()) Option {
	return func(c *Client) {
		c.onLogout = fn
	}
}

// New creates a new API client for the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		store:      NewCredentialStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store exposes the credential store, mainly for inspection in tests and for
// pre-seeding credentials.
func (c *Client) Store() *CredentialStore {
	return c.store
}

// Do sends the request with the stored access token attached and transparently
// recovers from access-token expiry:
//
//   - a non-401 response is returned unchanged;
//   - a 401 from the refresh endpoint itself forces logout;
//   - any other 401 triggers exactly one refresh exchange (concurrent 401s
//     share a single in-flight exchange) followed by exactly one replay whose
//     outcome is returned as-is; a second 401 is not retried.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := ensureReplayable(req); err != nil {
		return nil, err
	}

	c.attachAccessToken(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	if strings.HasSuffix(req.URL.Path, refreshPath) {
		// The refresh credential itself is dead.
		drainAndClose(resp.Body)
		c.forceLogout()
		return nil, ErrLoggedOut
	}

	drainAndClose(resp.Body)

	// Coalesce concurrent refresh attempts into one in-flight exchange.
	if _, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, c.refreshAccessToken(req.Context())
	}); err != nil {
		c.forceLogout()
		return nil, ErrLoggedOut
	}

	replay, err := rewindRequest(req)
	if err != nil {
		return nil, err
	}
	c.attachAccessToken(replay)

	return c.httpClient.Do(replay)
}

// refreshAccessToken performs the exchange: it presents the stored refresh
// token and user id and stores the newly issued access token. Any non-200
// outcome is fatal to the client session.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	refreshToken := c.store.RefreshToken()
	userID := c.store.UserID()
	if refreshToken == "" || userID == "" {
		return ErrNoCredentials
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+refreshPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set(headerRefreshToken, refreshToken)
	req.Header.Set(headerUserID, userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh exchange rejected with status %d", resp.StatusCode)
	}

	accessToken := resp.Header.Get(headerAccessToken)
	if accessToken == "" {
		return errors.New("refresh exchange returned no access token")
	}

	c.store.SetAccessToken(accessToken)
	return nil
}

// forceLogout clears every stored credential and fires the logout hook. The
// in-flight call that triggered it resolves as failed to its caller.
func (c *Client) forceLogout() {
	c.store.Clear()
	if c.onLogout != nil {
		c.onLogout()
	}
}

// attachAccessToken sets the access-token header if a token is stored
func (c *Client) attachAccessToken(req *http.Request) {
	if token := c.store.AccessToken(); token != "" {
		req.Header.Set(headerAccessToken, token)
	}
}

// Signup registers a new user. No credentials are issued; call Login next.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*User, error) {
	body, err := json.Marshal(map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the issued credential triple. The tokens
// arrive in the response headers; the body carries the public profile.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}

	c.store.SetCredentials(
		resp.Header.Get(headerAccessToken),
		resp.Header.Get(headerRefreshToken),
		user.ID,
	)

	return &user, nil
}

// Logout removes the current session on the server and clears the stored
// credentials regardless of the server's answer.
func (c *Client) Logout(ctx context.Context) error {
	refreshToken := c.store.RefreshToken()
	userID := c.store.UserID()

	defer c.store.Clear()

	if refreshToken == "" || userID == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/users/me/session", nil)
	if err != nil {
		return err
	}
	req.Header.Set(headerRefreshToken, refreshToken)
	req.Header.Set(headerUserID, userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// Helpers

// ensureReplayable guarantees the request body can be re-sent. Requests built
// with http.NewRequest from byte readers already carry GetBody; anything else
// with a body is buffered here.
func ensureReplayable(req *http.Request) error {
	if req.Body == nil || req.GetBody != nil {
		return nil
	}

	buf, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return err
	}

	req.Body = io.NopCloser(bytes.NewReader(buf))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
	return nil
}

// rewindRequest clones the request for its single replay
func rewindRequest(req *http.Request) (*http.Request, error) {
	replay := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		replay.Body = body
	}
	return replay, nil
}

// drainAndClose discards and closes a response body so the underlying
// connection can be reused
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	body.Close()
}

// statusError turns a non-success response into an error carrying the
// server's message when one is present
func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
