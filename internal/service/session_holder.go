package service

import (
	"sync"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
)

// SessionHolder owns the process-wide SessionState. It starts Pending and is injected
// into every consumer. Only the probe, the logout flow, and the account flows in this
// package write it; everyone else reads snapshots.
//
// Every write replaces the whole value. Writers that start asynchronous work take an
// operation token first and may only commit while that token is still current, so a
// probe that was in flight during a logout cannot bring back an authenticated state.
type SessionHolder struct {
	mu    sync.RWMutex
	state domainauth.SessionState
	token uint64
}

// NewSessionHolder returns a holder in the Pending state.
func NewSessionHolder() *SessionHolder {
	return &SessionHolder{state: domainauth.Pending()}
}

// Snapshot returns a copy of the current state.
func (h *SessionHolder) Snapshot() domainauth.SessionState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state.Clone()
}

// begin marks the state Pending and returns a fresh operation token.
func (h *SessionHolder) begin() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token++
	h.state = domainauth.Pending()
	return h.token
}

// commit stores st if tok is still the current token. It reports whether st was stored.
func (h *SessionHolder) commit(tok uint64, st domainauth.SessionState) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if tok != h.token {
		return false
	}
	h.token++
	h.state = st.Clone()
	return true
}

// reset moves to Anonymous and invalidates any in-flight operation.
func (h *SessionHolder) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token++
	h.state = domainauth.Anonymous(nil)
}

// recordError replaces LastError and keeps status and identity. In-flight tokens stay
// valid: a failed login does not supersede a running probe.
func (h *SessionHolder) recordError(o outcome.Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = h.state.WithLastError(&o)
}
