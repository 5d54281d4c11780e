package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	medgate "github.com/BemwaMalak/mini-full-stack"
	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
)

// TemplatePathFromRoot is where templates live on disk in dev mode.
var TemplatePathFromRoot = filepath.Join("frontend", "templates")

// NewRouter creates and configures the HTTP router with browser middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Session == nil {
		return nil, errors.New("session reader is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := services.Renderer
	if renderer == nil {
		var err error
		renderer, err = NewTemplateRenderer(TemplateRendererConfig{
			TemplateFS: templateFS(services.IsDev),
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create template renderer: %w", err)
		}
	}

	mux := http.NewServeMux()

	ui := &UIHandlers{Session: services.Session, Toasts: services.Toasts, Renderer: renderer}
	auth := &AuthHandlers{
		Accounts:   services.Accounts,
		LogoutFlow: services.Logout,
		Session:    services.Session,
		Toasts:     services.Toasts,
		Renderer:   renderer,
		Logger:     logger,
	}
	session := &SessionHandlers{Session: services.Session, Toasts: services.Toasts}

	guard := func(route string, req domainauth.Requirement) func(http.Handler) http.Handler {
		return GuardView(GuardOptions{
			Session:     services.Session,
			Requirement: req,
			Route:       route,
			Renderer:    renderer,
			Metrics:     services.Metrics,
		})
	}
	anonymousOnly := AnonymousOnly(services.Session, renderer)

	registerUIRoutes(mux, ui, guard, anonymousOnly)
	registerAuthRoutes(mux, auth, guard, anonymousOnly)

	mux.HandleFunc("GET /api/session", session.Get)
	mux.HandleFunc("GET /api/notifications", session.Notifications)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	mux.HandleFunc("/", ui.NotFound)

	return BrowserDetection()(mux), nil
}

type guardFactory func(route string, req domainauth.Requirement) func(http.Handler) http.Handler

func registerUIRoutes(mux *http.ServeMux, ui *UIHandlers, guard guardFactory, anonymousOnly func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /{$}", ui.Root)
	mux.Handle("GET "+RouteLogin, anonymousOnly(ui.Page(PageLogin, "Login")))

	authed := []struct {
		route, page, title string
	}{
		{RouteHome, PageHome, "Home"},
		{RouteMyRequests, PageMyRequests, "My refill requests"},
	}
	for _, p := range authed {
		mux.Handle("GET "+p.route, guard(p.route, domainauth.RequireAuthenticated)(ui.Page(p.page, p.title)))
	}

	admin := []struct {
		route, page, title string
	}{
		{RouteRegister, PageRegister, "Register"},
		{RouteDashboard, PageDashboard, "Dashboard"},
		{RouteMedicationNew, PageMedicationForm, "Add medication"},
	}
	for _, p := range admin {
		mux.Handle("GET "+p.route, guard(p.route, domainauth.RequireAdmin)(ui.Page(p.page, p.title)))
	}
}

func registerAuthRoutes(mux *http.ServeMux, auth *AuthHandlers, guard guardFactory, anonymousOnly func(http.Handler) http.Handler) {
	if auth.Accounts != nil {
		mux.Handle("POST /auth/login", anonymousOnly(http.HandlerFunc(auth.Login)))
		mux.Handle("POST /auth/register", guard("/auth/register", domainauth.RequireAdmin)(http.HandlerFunc(auth.Register)))
	}
	if auth.LogoutFlow != nil {
		mux.Handle("POST /auth/logout", guard("/auth/logout", domainauth.RequireAuthenticated)(http.HandlerFunc(auth.Logout)))
	}
}

func templateFS(isDev bool) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(medgate.TemplateFS, "frontend/templates")
	if err != nil {
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

func staticHandler(isDev bool) http.Handler {
	var static fs.FS
	if isDev {
		static = os.DirFS(filepath.Join("frontend", "static"))
	} else {
		sub, err := fs.Sub(medgate.StaticFS, "frontend/static")
		if err != nil {
			return http.NotFoundHandler()
		}
		static = sub
	}
	return http.StripPrefix("/static/", http.FileServerFS(static))
}
