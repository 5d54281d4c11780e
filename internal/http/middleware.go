package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/metrics"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/statsd"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if val := r.Context().Value(browserRequestKey{}); val != nil {
		if isBrowser, ok := val.(bool); ok {
			return isBrowser
		}
	}
	return isBrowserRequest(r)
}

// isBrowserRequest treats /api/ and /static/ as non-browser, htmx as browser, and
// otherwise follows the Accept header (missing Accept counts as browser).
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// GuardOptions configures GuardView.
type GuardOptions struct {
	Session     SessionReader
	Requirement domainauth.Requirement
	// Route labels metrics; defaults to the request path.
	Route    string
	Renderer *TemplateRenderer
	Metrics  statsd.Sink
}

// GuardView enacts the route guard decision for the wrapped view.
// Pending renders the spinner page for browsers and 202 JSON for htmx and API
// callers. Redirects use Hx-Redirect for htmx and 303 otherwise.
func GuardView(opts GuardOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := domainauth.Guard(opts.Session.Snapshot(), opts.Requirement)
			route := opts.Route
			if route == "" {
				route = r.URL.Path
			}
			metrics.EmitGuardDecision(opts.Metrics, route, string(decision.Kind))

			switch decision.Kind {
			case domainauth.DecisionShowPending:
				writePending(w, r, opts.Renderer)
			case domainauth.DecisionRedirect:
				redirect(w, r, decision.Path)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// AnonymousOnly sends authenticated users to the home page. Pending renders the
// spinner like GuardView.
func AnonymousOnly(session SessionReader, renderer *TemplateRenderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := session.Snapshot()
			switch {
			case st.IsPending():
				writePending(w, r, renderer)
			case st.IsAuthenticated():
				redirect(w, r, domainauth.HomePath)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func writePending(w http.ResponseWriter, r *http.Request, renderer *TemplateRenderer) {
	w.Header().Set("Retry-After", "1")
	if IsHTMX(r) || !IsBrowserRequest(r) || renderer == nil {
		WriteJSON(w, http.StatusAccepted, map[string]string{"status": string(domainauth.StatusPending)})
		return
	}
	renderer.Render(w, r, RenderRequest{
		Page:   PagePending,
		Status: http.StatusOK,
		Data:   PageData{Title: "Loading", Page: PagePending, Session: domainauth.Pending()},
	})
}
