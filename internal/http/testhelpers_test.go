package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/statsd"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
	"github.com/BemwaMalak/mini-full-stack/internal/service"
	"github.com/BemwaMalak/mini-full-stack/internal/service/notifier"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu sync.Mutex
	st domainauth.SessionState
}

func (f *fakeSession) Snapshot() domainauth.SessionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.Clone()
}

func (f *fakeSession) set(st domainauth.SessionState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st = st
}

type fakeAccounts struct {
	login    func(ports.Credentials) service.FlowResult
	register func(ports.Registration) service.FlowResult
	lastReg  ports.Registration
}

func (f *fakeAccounts) Login(_ context.Context, creds ports.Credentials) service.FlowResult {
	return f.login(creds)
}

func (f *fakeAccounts) Register(_ context.Context, reg ports.Registration) service.FlowResult {
	f.lastReg = reg
	return f.register(reg)
}

type fakeLogout struct {
	result service.LogoutResult
	calls  int
}

func (f *fakeLogout) Logout(context.Context) service.LogoutResult {
	f.calls++
	return f.result
}

type recordingSink struct {
	statsd.Noop
	mu        sync.Mutex
	decisions []string
}

func (s *recordingSink) Count(name string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "guard.decision" {
		s.decisions = append(s.decisions, tags["route"]+"="+tags["decision"])
	}
}

var (
	userIdentity  = domainauth.Identity{Username: "bob", Email: "bob@example.com", Role: domainauth.RoleUser}
	adminIdentity = domainauth.Identity{Username: "amy", Email: "amy@example.com", Role: domainauth.RoleAdmin}
)

type testRouter struct {
	handler  http.Handler
	session  *fakeSession
	accounts *fakeAccounts
	logout   *fakeLogout
	inbox    *notifier.Inbox
	sink     *recordingSink
}

func newTestRouter(t *testing.T, st domainauth.SessionState) *testRouter {
	t.Helper()
	tr := &testRouter{
		session: &fakeSession{st: st},
		accounts: &fakeAccounts{
			login: func(ports.Credentials) service.FlowResult {
				return service.FlowResult{Outcome: outcome.Translate("S001"), RedirectTo: domainauth.HomePath}
			},
			register: func(ports.Registration) service.FlowResult {
				return service.FlowResult{Outcome: outcome.Translate("S003"), RedirectTo: domainauth.LoginPath}
			},
		},
		logout: &fakeLogout{result: service.LogoutResult{Outcome: outcome.Translate("S002"), RedirectTo: domainauth.LoginPath}},
		inbox:  notifier.NewInbox(10),
		sink:   &recordingSink{},
	}
	h, err := NewRouter(RouterServices{
		Session:  tr.session,
		Logout:   tr.logout,
		Accounts: tr.accounts,
		Toasts:   tr.inbox,
		Metrics:  tr.sink,
	})
	require.NoError(t, err)
	tr.handler = h
	return tr
}

type reqOpt func(*http.Request)

func htmx(r *http.Request)       { r.Header.Set("Hx-Request", "true") }
func acceptJSON(r *http.Request) { r.Header.Set("Accept", "application/json") }
func acceptHTML(r *http.Request) { r.Header.Set("Accept", "text/html") }

func (tr *testRouter) do(method, target, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)
	return rec
}
