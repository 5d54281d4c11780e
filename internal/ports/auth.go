package ports

// Package ports defines interfaces (hexagonal ports) for the session gate.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
)

// IdentityAPI talks to the backend session endpoints using the ambient session cookie.
// Non-2xx answers are reported as *outcome.ServerError.
type IdentityAPI interface {
	// FetchIdentity returns the identity bound to the current session cookie.
	// A 2xx body that does not match the identity schema yields ErrMalformedIdentity.
	FetchIdentity(ctx context.Context) (domainauth.Identity, error)

	// Logout invalidates the server-side session.
	Logout(ctx context.Context) error
}

// Credentials carries a login attempt.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration carries a new account created by an administrator.
type Registration struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     domainauth.Role `json:"role,omitempty"`
}

// AccountAPI covers the login and registration endpoints.
type AccountAPI interface {
	Login(ctx context.Context, in Credentials) error
	Register(ctx context.Context, in Registration) error
}

// OnceLedger records operation keys so an outcome is surfaced at most once per key.
type OnceLedger interface {
	// Seen marks key and reports whether it had already been marked within ttl.
	Seen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Presenter shows an outcome to the user.
type Presenter interface {
	Present(ctx context.Context, o outcome.Outcome)
}
