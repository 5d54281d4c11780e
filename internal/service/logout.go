package service

import (
	"context"
	"log/slog"
	"time"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/metrics"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/statsd"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
)

// Notifier accepts outcomes for presentation.
type Notifier interface {
	Notify(o outcome.Outcome)
}

// LogoutFlowOptions groups dependencies for LogoutFlow.
type LogoutFlowOptions struct {
	API      ports.IdentityAPI
	Holder   *SessionHolder
	Notifier Notifier
	// Probe is used only when ReprobeOnFailure is set.
	Probe            *SessionProbe
	ReprobeOnFailure bool
	Metrics          statsd.Sink
	Logger           *slog.Logger
}

// LogoutResult reports the outcome of a logout attempt. RedirectTo is empty when the
// caller should stay where it is.
type LogoutResult struct {
	Outcome    outcome.Outcome
	RedirectTo string
}

// LogoutFlow terminates the server session and resets local state.
type LogoutFlow struct {
	api      ports.IdentityAPI
	holder   *SessionHolder
	notifier Notifier
	probe    *SessionProbe
	reprobe  bool
	metrics  statsd.Sink
	logger   *slog.Logger
}

// NewLogoutFlow constructs a LogoutFlow.
func NewLogoutFlow(opts LogoutFlowOptions) *LogoutFlow {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Noop{}
	}
	return &LogoutFlow{
		api:      opts.API,
		holder:   opts.Holder,
		notifier: opts.Notifier,
		probe:    opts.Probe,
		reprobe:  opts.ReprobeOnFailure && opts.Probe != nil,
		metrics:  sink,
		logger:   logger.With("component", "logout"),
	}
}

// Logout calls the logout endpoint once. On success the session is reset to Anonymous
// and the caller is sent to the login page. On failure the session is left as it was
// and no redirect is returned. The outcome is always sent to the notifier.
func (f *LogoutFlow) Logout(ctx context.Context) LogoutResult {
	start := time.Now()
	err := f.api.Logout(ctx)
	if err != nil {
		o := outcome.FromError(err)
		f.logger.WarnContext(ctx, "logout failed", "code", o.Code, "error", err)
		metrics.EmitFlow(f.metrics, metrics.FlowMetric{
			Flow: "logout", Result: metrics.ResultError, Code: string(o.Code),
			Duration: time.Since(start), Err: err,
		})
		f.notify(o)
		if f.reprobe {
			f.probe.Resolve(ctx)
		}
		return LogoutResult{Outcome: o}
	}

	o := outcome.Translate(string(outcome.CodeLogoutSuccess))
	f.notify(o)
	f.holder.reset()
	f.logger.InfoContext(ctx, "logged out")
	metrics.EmitFlow(f.metrics, metrics.FlowMetric{
		Flow: "logout", Result: metrics.ResultSuccess, Code: string(o.Code), Duration: time.Since(start),
	})
	return LogoutResult{Outcome: o, RedirectTo: domainauth.LoginPath}
}

func (f *LogoutFlow) notify(o outcome.Outcome) {
	if f.notifier != nil {
		f.notifier.Notify(o)
	}
}
