package auth

// Package auth contains domain-level types for the client session and route gating.
// It is pure and free of transport/adapter concerns.

import (
	"strings"

	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
)

// Role represents a coarse authorization tier attached to an identity.
// The string form matches what the backend returns.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a backend role string onto a known Role.
// It returns false for anything that is not USER or ADMIN.
func ParseRole(s string) (Role, bool) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)):
		return RoleAdmin, true
	case strings.EqualFold(strings.TrimSpace(s), string(RoleUser)):
		return RoleUser, true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// Identity is the authenticated principal as reported by the identity endpoint.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Status is the tri-state session status. Pending is distinct from Anonymous and
// gates rendering until the probe resolves.
type Status string

const (
	StatusPending       Status = "pending"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// SessionState is the client's view of its server session.
// Build values with Pending, Anonymous, or Authenticated so Identity is set
// only when Status is StatusAuthenticated.
type SessionState struct {
	Status    Status           `json:"status"`
	Identity  *Identity        `json:"identity,omitempty"`
	LastError *outcome.Outcome `json:"last_error,omitempty"`
}

// Pending is the initial state before the first probe resolves.
func Pending() SessionState {
	return SessionState{Status: StatusPending}
}

// Anonymous returns an unauthenticated state, optionally recording the outcome that caused it.
func Anonymous(lastErr *outcome.Outcome) SessionState {
	return SessionState{Status: StatusAnonymous, LastError: cloneOutcome(lastErr)}
}

// Authenticated returns a state carrying a copy of id.
func Authenticated(id Identity) SessionState {
	return SessionState{Status: StatusAuthenticated, Identity: &id}
}

// IsAuthenticated reports whether the state carries a resolved identity.
func (s SessionState) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}

// IsPending reports whether the state is still waiting on the probe.
func (s SessionState) IsPending() bool { return s.Status == StatusPending }

// WithLastError returns a copy of s with LastError replaced. Status and identity are kept.
func (s SessionState) WithLastError(o *outcome.Outcome) SessionState {
	out := s.Clone()
	out.LastError = cloneOutcome(o)
	return out
}

// Clone returns a deep copy so callers never share pointers with the holder.
func (s SessionState) Clone() SessionState {
	out := SessionState{Status: s.Status, LastError: cloneOutcome(s.LastError)}
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	return out
}

// Valid reports whether s satisfies the identity/status invariant.
func (s SessionState) Valid() bool {
	switch s.Status {
	case StatusAuthenticated:
		return s.Identity != nil
	case StatusPending, StatusAnonymous:
		return s.Identity == nil
	default:
		return false
	}
}

func cloneOutcome(o *outcome.Outcome) *outcome.Outcome {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}
