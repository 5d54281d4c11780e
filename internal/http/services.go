package httpx

import (
	"context"
	"log/slog"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/statsd"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
	"github.com/BemwaMalak/mini-full-stack/internal/service"
	"github.com/BemwaMalak/mini-full-stack/internal/service/notifier"
)

// SessionReader exposes the current session state. Implemented by *service.SessionHolder.
type SessionReader interface {
	Snapshot() domainauth.SessionState
}

// LogoutService is implemented by *service.LogoutFlow.
type LogoutService interface {
	Logout(ctx context.Context) service.LogoutResult
}

// AccountService is implemented by *service.AccountFlows.
type AccountService interface {
	Login(ctx context.Context, creds ports.Credentials) service.FlowResult
	Register(ctx context.Context, reg ports.Registration) service.FlowResult
}

// ToastSource is implemented by *notifier.Inbox.
type ToastSource interface {
	Drain() []notifier.Toast
}

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Session  SessionReader
	Logout   LogoutService
	Accounts AccountService
	Toasts   ToastSource
	// Renderer is optional; a renderer over the embedded templates is created when nil.
	Renderer *TemplateRenderer
	Metrics  statsd.Sink
	IsDev    bool         // Development mode flag: templates are read from disk.
	Logger   *slog.Logger // Logger for template and HTTP errors (optional)
}
