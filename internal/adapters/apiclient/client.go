// Package apiclient talks to the refill backend over HTTP. It keeps the backend
// session cookie in its own jar, so callers never handle the credential.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/net/publicsuffix"
)

// Backend endpoint paths, relative to the base URL.
const (
	PathIdentity = "auth/user/"
	PathLogin    = "auth/login/"
	PathLogout   = "auth/logout/"
	PathRegister = "auth/register/"
)

// DefaultErrorCodeExpr locates the taxonomy code in an error body.
const DefaultErrorCodeExpr = "code"

const maxBodyBytes = 1 << 20

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// ErrorCodeExpr is a JMESPath expression evaluated against non-2xx bodies.
	ErrorCodeExpr string
	UserAgent     string
	// HTTPClient overrides the default client. Its Jar is replaced when nil.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implements ports.IdentityAPI and ports.AccountAPI.
type Client struct {
	base      *url.URL
	codeExpr  string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

var (
	_ ports.IdentityAPI = (*Client)(nil)
	_ ports.AccountAPI  = (*Client)(nil)
)

// New builds a Client with a fresh cookie jar.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", base.Scheme)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	expr := strings.TrimSpace(cfg.ErrorCodeExpr)
	if expr == "" {
		expr = DefaultErrorCodeExpr
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile error code expression %q: %w", expr, err)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout < 0 {
			timeout = 0
		}
		hc = &http.Client{Timeout: timeout}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:      base,
		codeExpr:  expr,
		userAgent: strings.TrimSpace(cfg.UserAgent),
		http:      hc,
		logger:    logger.With("component", "apiclient"),
	}, nil
}

type identityEnvelope struct {
	Data *struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	} `json:"data"`
}

// FetchIdentity asks the backend who owns the current session.
func (c *Client) FetchIdentity(ctx context.Context) (domainauth.Identity, error) {
	body, err := c.do(ctx, http.MethodGet, PathIdentity, nil)
	if err != nil {
		return domainauth.Identity{}, err
	}
	return decodeIdentity(body)
}

func decodeIdentity(body []byte) (domainauth.Identity, error) {
	var env identityEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domainauth.Identity{}, fmt.Errorf("%w: %w", ports.ErrMalformedIdentity, err)
	}
	if env.Data == nil {
		return domainauth.Identity{}, fmt.Errorf("%w: missing data", ports.ErrMalformedIdentity)
	}
	username := strings.TrimSpace(env.Data.Username)
	if username == "" {
		return domainauth.Identity{}, fmt.Errorf("%w: missing username", ports.ErrMalformedIdentity)
	}
	role, ok := domainauth.ParseRole(env.Data.Role)
	if !ok {
		return domainauth.Identity{}, fmt.Errorf("%w: unknown role %q", ports.ErrMalformedIdentity, env.Data.Role)
	}
	return domainauth.Identity{
		Username: username,
		Email:    strings.TrimSpace(env.Data.Email),
		Role:     role,
	}, nil
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, PathLogout, nil)
	return err
}

// Login posts credentials. The session cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) error {
	_, err := c.do(ctx, http.MethodPost, PathLogin, creds)
	return err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg ports.Registration) error {
	_, err := c.do(ctx, http.MethodPost, PathRegister, reg)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	target := c.base.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if closeErr := resp.Body.Close(); closeErr != nil && readErr == nil {
		readErr = closeErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		code := c.extractCode(body)
		c.logger.DebugContext(ctx, "backend rejected request", "path", path, "status", resp.StatusCode, "code", code)
		return nil, &outcome.ServerError{Status: resp.StatusCode, Code: code}
	}
	if readErr != nil {
		return nil, fmt.Errorf("read %s response: %w", path, readErr)
	}
	return body, nil
}

// extractCode returns the taxonomy code carried in body, or "" when none can be found.
func (c *Client) extractCode(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	v, err := jmespath.Search(c.codeExpr, doc)
	if err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
