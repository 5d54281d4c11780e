package httpx

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/stretchr/testify/assert"
)

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/home", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "boom")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Contains(t, buf.String(), "path=/login")
	assert.Contains(t, buf.String(), "status=418")
}

func TestGuardView_NilRendererFallsBackToJSON(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("view must not render while pending")
	})
	h := GuardView(GuardOptions{
		Session:     &fakeSession{st: domainauth.Pending()},
		Requirement: domainauth.RequireAuthenticated,
	})(next)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"pending"}`, rec.Body.String())
}

func TestSessionHandlers_NilToastSource(t *testing.T) {
	h := &SessionHandlers{Session: &fakeSession{st: domainauth.Anonymous(nil)}}
	rec := httptest.NewRecorder()
	h.Notifications(rec, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))

	assert.JSONEq(t, `{"notifications":[]}`, rec.Body.String())
}
