package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/stretchr/testify/assert"
)

func TestHealthz_ReportsProcessNotSession(t *testing.T) {
	states := map[string]domainauth.SessionState{
		"pending":       domainauth.Pending(),
		"anonymous":     domainauth.Anonymous(nil),
		"authenticated": domainauth.Authenticated(userIdentity),
	}
	for name, st := range states {
		t.Run(name, func(t *testing.T) {
			rec := newTestRouter(t, st).do(http.MethodGet, "/healthz", "", acceptHTML)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
		})
	}
}

func TestHealthz_HeadHasNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(rec, httptest.NewRequest(http.MethodHead, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Zero(t, rec.Body.Len())
}
