package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/BemwaMalak/mini-full-stack/config"
	"github.com/BemwaMalak/mini-full-stack/internal/adapters/apiclient"
	redisadapter "github.com/BemwaMalak/mini-full-stack/internal/adapters/redis"
	httpx "github.com/BemwaMalak/mini-full-stack/internal/http"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/statsd"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
	"github.com/BemwaMalak/mini-full-stack/internal/service"
	"github.com/BemwaMalak/mini-full-stack/internal/service/notifier"
	"github.com/redis/go-redis/v9"
)

// AppDeps holds the infrastructure the application is assembled from.
type AppDeps struct {
	Config config.AppConfig
	Logger *slog.Logger
	// Redis is required only when the notification ledger is redis-backed.
	Redis redis.UniversalClient
	// Metrics defaults to a sink built from Config.Observability.Metrics.
	Metrics statsd.Sink
	// HTTPClient overrides the backend client's transport (tests).
	HTTPClient *http.Client
}

// App is the assembled session gate: one session holder shared by the probe, the
// flows and the UI router.
type App struct {
	cfg    config.AppConfig
	logger *slog.Logger

	Holder   *service.SessionHolder
	Probe    *service.SessionProbe
	Logout   *service.LogoutFlow
	Accounts *service.AccountFlows
	Notifier *notifier.Service
	Inbox    *notifier.Inbox
	Handler  http.Handler

	metrics statsd.Sink
	scope   *notifier.Scope
}

// NewApp wires the backend client, session services, notification sink and HTTP
// handler from configuration.
func NewApp(deps AppDeps) (*App, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	api, err := apiclient.New(apiclient.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		ErrorCodeExpr: cfg.API.ErrorCodeExpr,
		UserAgent:     cfg.API.UserAgent,
		HTTPClient:    deps.HTTPClient,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	sink := deps.Metrics
	if sink == nil {
		sink = buildMetrics(cfg.Observability.Metrics, logger)
	}

	ledger, err := buildLedger(cfg, deps.Redis)
	if err != nil {
		return nil, err
	}

	inbox := notifier.NewInbox(cfg.Notify.InboxCapacity)
	presenters := []notifier.PresenterRegistration{{Name: "inbox", Presenter: inbox}}
	if cfg.Notify.LogOutcomes {
		presenters = append(presenters, notifier.PresenterRegistration{
			Name:      "log",
			Presenter: notifier.LogPresenter{Logger: logger.With("component", "outcomes")},
		})
	}
	notify := notifier.NewService(notifier.Options{
		Logger:     logger.With("component", "notifier"),
		Presenters: presenters,
		Ledger:     ledger,
		OnceTTL:    cfg.Notify.OnceTTL,
	})

	holder := service.NewSessionHolder()
	probe := service.NewSessionProbe(service.SessionProbeOptions{
		API:     api,
		Holder:  holder,
		Metrics: sink,
		Logger:  logger,
	})
	logout := service.NewLogoutFlow(service.LogoutFlowOptions{
		API:              api,
		Holder:           holder,
		Notifier:         notify,
		Probe:            probe,
		ReprobeOnFailure: cfg.Session.ReprobeOnLogoutFailure,
		Metrics:          sink,
		Logger:           logger,
	})
	accounts := service.NewAccountFlows(service.AccountFlowsOptions{
		API:      api,
		Holder:   holder,
		Probe:    probe,
		Notifier: notify,
		Metrics:  sink,
		Logger:   logger,
	})

	router, err := httpx.NewRouter(httpx.RouterServices{
		Session:  holder,
		Logout:   logout,
		Accounts: accounts,
		Toasts:   inbox,
		Metrics:  sink,
		IsDev:    cfg.IsDev,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	// Order: Recover -> Logging -> Router
	handler := httpx.Logging(logger)(router)
	handler = httpx.Recover(logger)(handler)

	return &App{
		cfg:      cfg,
		logger:   logger,
		Holder:   holder,
		Probe:    probe,
		Logout:   logout,
		Accounts: accounts,
		Notifier: notify,
		Inbox:    inbox,
		Handler:  handler,
		metrics:  sink,
		scope:    notify.NewScope("session"),
	}, nil
}

// Close releases resources owned by the app.
func (a *App) Close() error {
	if c, ok := a.metrics.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

//nolint:ireturn // the ledger backend is chosen at runtime.
func buildLedger(cfg config.AppConfig, client redis.UniversalClient) (ports.OnceLedger, error) {
	if cfg.Notify.Ledger != config.LedgerRedis {
		return notifier.NewMemoryLedger(notifier.MemoryLedgerConfig{Capacity: cfg.Notify.LedgerCapacity}), nil
	}
	if client == nil {
		return nil, errors.New("redis notification ledger requires a redis client")
	}
	return redisadapter.NewOnceLedgerWithPrefix(client, cfg.Redis.KeyPrefix), nil
}

// buildMetrics returns a StatsD sink, or a no-op sink when metrics are disabled or
// the agent cannot be reached.
//
//nolint:ireturn // callers only need the Sink behaviour.
func buildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) statsd.Sink {
	sink, err := statsd.New(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return statsd.Noop{}
	}
	return sink
}
