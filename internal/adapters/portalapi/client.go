package portalapi

// Package portalapi is the REST adapter for the portal backend. It owns
// request construction (bearer auth, correlation IDs), response
// classification into internal/errors codes, and tolerant extraction of
// the loosely shaped payloads the server emits across deployments.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/vidaplena/portal-session/internal/errors"
	"github.com/vidaplena/portal-session/internal/ports"
)

const (
	pathLogin          = "/auth/login"
	pathRegister       = "/auth/register"
	pathCurrentUser    = "/user/me"
	pathPatientProfile = "/patient-profile/me"
)

// Config captures the subset of HTTP behaviour the portal client needs.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client

	// OnUnauthorized runs when an authenticated call on a non-public
	// route returns 401 while a token is present. The session manager
	// registers its invalidation logic here; the hook must not block.
	OnUnauthorized func()
}

// Client implements ports.PortalAPI against the portal REST backend.
type Client struct {
	baseURL        string
	client         *http.Client
	onUnauthorized func()
}

var _ ports.PortalAPI = (*Client)(nil)

// NewClient builds a portal API client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("portal api base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:        base,
		client:         hc,
		onUnauthorized: cfg.OnUnauthorized,
	}, nil
}

// SetUnauthorizedHook installs the 401 interceptor callback after
// construction. The session manager uses this to break the wiring cycle
// between client and manager.
func (c *Client) SetUnauthorizedHook(fn func()) { c.onUnauthorized = fn }

// Login exchanges credentials for a token and user payload.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (ports.AuthPayload, error) {
	body := map[string]string{"email": creds.Email, "password": creds.Password}
	data, err := c.do(ctx, http.MethodPost, pathLogin, "", body)
	if err != nil {
		return ports.AuthPayload{}, fmt.Errorf("login: %w", err)
	}
	return parseAuthPayload(data)
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, reg ports.Registration) (ports.AuthPayload, error) {
	body := map[string]string{
		"fullName":     reg.FullName,
		"cpf":          reg.CPF,
		"email":        reg.Email,
		"passwordHash": reg.PasswordHash,
	}
	data, err := c.do(ctx, http.MethodPost, pathRegister, "", body)
	if err != nil {
		return ports.AuthPayload{}, fmt.Errorf("register: %w", err)
	}
	return parseAuthPayload(data)
}

// CurrentUser fetches the authoritative user for the token.
func (c *Client) CurrentUser(ctx context.Context, token string) (ports.RawUser, error) {
	data, err := c.do(ctx, http.MethodGet, pathCurrentUser, token, nil)
	if err != nil {
		return ports.RawUser{}, fmt.Errorf("fetch current user: %w", err)
	}
	return parseRawUser(data), nil
}

// PatientProfile fetches the caller's patient profile. A not_found error
// means "no profile yet".
func (c *Client) PatientProfile(ctx context.Context, token string) (domainProfile, error) {
	data, err := c.do(ctx, http.MethodGet, pathPatientProfile, token, nil)
	if err != nil {
		return domainProfile{}, fmt.Errorf("fetch patient profile: %w", err)
	}
	return parseProfile(data), nil
}

// do executes one request and returns the decoded JSON body. Responses
// are classified into internal/errors codes; the 401 interceptor fires
// here for authenticated routes.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (any, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, classifyContextError(ctxErr, err)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "portal unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "read portal response")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return decodeJSON(raw), nil
	}
	return nil, c.classifyFailure(path, token, resp.StatusCode, raw)
}

// classifyFailure maps a non-2xx response to the error taxonomy. The 401
// interceptor only fires for authenticated routes: login and register are
// public, and a 401 there is a credential mistake, not a revocation.
func (c *Client) classifyFailure(path, token string, status int, raw []byte) error {
	msg := serverMessage(raw)

	switch {
	case status == http.StatusUnauthorized:
		if token != "" && !isPublicPath(path) && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if msg == "" {
			msg = "credential rejected"
		}
		return apperrors.Unauthorized(msg)
	case status == http.StatusNotFound:
		if msg == "" {
			msg = "resource not found"
		}
		return apperrors.NotFound(msg)
	case status == http.StatusConflict:
		if msg == "" {
			msg = "conflicting record"
		}
		return apperrors.Conflict(msg)
	case status >= 400 && status < 500:
		if msg == "" {
			msg = fmt.Sprintf("request rejected (%d)", status)
		}
		return apperrors.Validation(msg)
	default:
		// 502 and friends pass through as transient; no session mutation
		// happens on this path.
		return apperrors.Unavailable(fmt.Sprintf("portal error (%d)", status))
	}
}

func classifyContextError(ctxErr, cause error) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return apperrors.Wrap(cause, apperrors.ErrCodeTimeout, "portal request timed out")
	}
	return apperrors.Wrap(cause, apperrors.ErrCodeCanceled, "portal request canceled")
}

func isPublicPath(path string) bool {
	return path == pathLogin || path == pathRegister
}

// decodeJSON decodes a response body into generic JSON. Bodies that fail
// to decode yield nil; extraction treats that as "field absent".
func decodeJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return data
}
