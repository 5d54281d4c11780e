package httpx

import (
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
	"github.com/BemwaMalak/mini-full-stack/internal/service/notifier"
)

// AuthHandlers serves the login, registration, and logout form posts.
type AuthHandlers struct {
	Accounts   AccountService
	LogoutFlow LogoutService
	Session    SessionReader
	Toasts     ToastSource
	Renderer   *TemplateRenderer
	Logger     *slog.Logger
}

// flowResponse is the JSON body returned to non-browser callers.
type flowResponse struct {
	Outcome    outcome.Outcome         `json:"outcome"`
	RedirectTo string                  `json:"redirect_to,omitempty"`
	Session    domainauth.SessionState `json:"session"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if isJSONBody(r) {
		if !DecodeJSON(w, r, &in) {
			return
		}
	} else {
		if !parseForm(w, r) {
			return
		}
		in = loginRequest{Username: r.PostFormValue("username"), Password: r.PostFormValue("password")}
	}

	res := h.Accounts.Login(r.Context(), ports.Credentials{Username: in.Username, Password: in.Password})
	if wantsJSON(r) {
		WriteJSON(w, statusForOutcome(res.Outcome), flowResponse{Outcome: res.Outcome, RedirectTo: res.RedirectTo, Session: res.State})
		return
	}
	if res.RedirectTo != "" {
		redirect(w, r, res.RedirectTo)
		return
	}
	h.renderFormError(w, r, formError{
		page:    PageLogin,
		title:   "Login",
		outcome: res.Outcome,
		form:    map[string]string{"username": in.Username},
	})
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if isJSONBody(r) {
		if !DecodeJSON(w, r, &in) {
			return
		}
	} else {
		if !parseForm(w, r) {
			return
		}
		in = registerRequest{
			Username: r.PostFormValue("username"),
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
			Role:     r.PostFormValue("role"),
		}
	}

	reg := ports.Registration{Username: in.Username, Email: in.Email, Password: in.Password}
	if strings.TrimSpace(in.Role) != "" {
		role, ok := domainauth.ParseRole(in.Role)
		if !ok {
			role = domainauth.Role(in.Role)
		}
		reg.Role = role
	}

	res := h.Accounts.Register(r.Context(), reg)
	if wantsJSON(r) {
		WriteJSON(w, statusForOutcome(res.Outcome), flowResponse{Outcome: res.Outcome, RedirectTo: res.RedirectTo, Session: res.State})
		return
	}
	if res.RedirectTo != "" {
		redirect(w, r, res.RedirectTo)
		return
	}
	h.renderFormError(w, r, formError{
		page:    PageRegister,
		title:   "Register",
		outcome: res.Outcome,
		form:    map[string]string{"username": in.Username, "email": in.Email},
	})
}

// Logout handles POST /auth/logout. A failed logout keeps the user where they were.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	res := h.LogoutFlow.Logout(r.Context())
	if wantsJSON(r) {
		WriteJSON(w, statusForOutcome(res.Outcome), flowResponse{Outcome: res.Outcome, RedirectTo: res.RedirectTo, Session: h.Session.Snapshot()})
		return
	}
	if res.RedirectTo != "" {
		redirect(w, r, res.RedirectTo)
		return
	}
	if IsHTMX(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, backPath(r), http.StatusSeeOther)
}

type formError struct {
	page    string
	title   string
	outcome outcome.Outcome
	form    map[string]string
}

func (h *AuthHandlers) renderFormError(w http.ResponseWriter, r *http.Request, fe formError) {
	st := h.Session.Snapshot()
	o := fe.outcome
	h.Renderer.Render(w, r, RenderRequest{
		Page:   fe.page,
		Status: statusForOutcome(o),
		Data: PageData{
			Title:   fe.title,
			Page:    fe.page,
			Session: st,
			Nav:     BuildNav(st, r.URL.Path),
			Toasts:  drainToasts(h.Toasts),
			Error:   &o,
			Form:    fe.form,
		},
	})
}

// statusForOutcome maps an outcome onto the HTTP status returned to local callers.
func statusForOutcome(o outcome.Outcome) int {
	switch o.Kind {
	case outcome.KindInvalidCredentials, outcome.KindNotAuthenticated:
		return http.StatusUnauthorized
	case outcome.KindValidationError:
		return http.StatusBadRequest
	case outcome.KindRateLimited:
		return http.StatusTooManyRequests
	case outcome.KindAccountLocked:
		return http.StatusLocked
	case outcome.KindUnauthorized, outcome.KindForbidden:
		return http.StatusForbidden
	case outcome.KindNotFound:
		return http.StatusNotFound
	case outcome.KindUnexpectedError:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func isJSONBody(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func wantsJSON(r *http.Request) bool {
	return isJSONBody(r) || !IsBrowserRequest(r)
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_form", Err: err})
		return false
	}
	return true
}

// backPath returns the same-origin path of the Referer, or the home page.
func backPath(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return RouteHome
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return RouteHome
	}
	p := u.EscapedPath()
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return RouteHome
	}
	return p
}

func drainToasts(src ToastSource) []notifier.Toast {
	if src == nil {
		return nil
	}
	return src.Drain()
}
