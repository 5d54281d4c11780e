package httpx

import (
	"net/http"
	"strings"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
)

// UIHandlers renders the page views. Access control is applied by the router.
type UIHandlers struct {
	Session  SessionReader
	Toasts   ToastSource
	Renderer *TemplateRenderer
}

// Page returns a handler rendering page with the given title.
func (h *UIHandlers) Page(page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := h.Session.Snapshot()
		h.Renderer.Render(w, r, RenderRequest{
			Page: page,
			Data: PageData{
				Title:   title,
				Page:    page,
				Session: st,
				Nav:     BuildNav(st, r.URL.Path),
				Toasts:  drainToasts(h.Toasts),
			},
		})
	}
}

// Root sends the user to the home page or the login page depending on the session.
func (h *UIHandlers) Root(w http.ResponseWriter, r *http.Request) {
	st := h.Session.Snapshot()
	switch {
	case st.IsPending():
		writePending(w, r, h.Renderer)
	case st.IsAuthenticated():
		redirect(w, r, domainauth.HomePath)
	default:
		redirect(w, r, domainauth.LoginPath)
	}
}

// NotFound redirects unknown UI paths to the root; unknown API paths get JSON.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") || !IsBrowserRequest(r) {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "no such route"})
		return
	}
	redirect(w, r, RouteRoot)
}
