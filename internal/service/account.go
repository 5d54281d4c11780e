package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/metrics"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/statsd"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
)

// AccountFlowsOptions groups dependencies for AccountFlows.
type AccountFlowsOptions struct {
	API      ports.AccountAPI
	Holder   *SessionHolder
	Probe    *SessionProbe
	Notifier Notifier
	Metrics  statsd.Sink
	Logger   *slog.Logger
}

// FlowResult reports the outcome of a login or registration attempt.
type FlowResult struct {
	Outcome    outcome.Outcome
	RedirectTo string
	State      domainauth.SessionState
}

// AccountFlows runs login and registration against the backend. Failures only replace
// LastError; they never change the session status.
type AccountFlows struct {
	api      ports.AccountAPI
	holder   *SessionHolder
	probe    *SessionProbe
	notifier Notifier
	metrics  statsd.Sink
	logger   *slog.Logger
}

// NewAccountFlows constructs AccountFlows.
func NewAccountFlows(opts AccountFlowsOptions) *AccountFlows {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Noop{}
	}
	return &AccountFlows{
		api:      opts.API,
		holder:   opts.Holder,
		probe:    opts.Probe,
		notifier: opts.Notifier,
		metrics:  sink,
		logger:   logger.With("component", "account"),
	}
}

// Login submits credentials. On success the session is re-probed so the holder reflects
// the server's view of the new identity.
func (a *AccountFlows) Login(ctx context.Context, creds ports.Credentials) FlowResult {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return a.fail(ctx, "login", time.Now(), outcome.Translate(string(outcome.CodeValidation)), nil)
	}

	start := time.Now()
	if err := a.api.Login(ctx, creds); err != nil {
		return a.fail(ctx, "login", start, outcome.FromError(err), err)
	}

	o := outcome.Translate(string(outcome.CodeLoginSuccess))
	a.notify(o)
	// The server session exists now; a client disconnect must not turn it into Anonymous.
	st := a.probe.Resolve(context.WithoutCancel(ctx))
	a.logger.InfoContext(ctx, "login succeeded", "username", creds.Username, "status", st.Status)
	metrics.EmitFlow(a.metrics, metrics.FlowMetric{
		Flow: "login", Result: metrics.ResultSuccess, Code: string(o.Code), Duration: time.Since(start),
	})
	return FlowResult{Outcome: o, RedirectTo: domainauth.HomePath, State: st}
}

// Register creates an account. Registration does not sign the user in; success sends
// the caller to the login page.
func (a *AccountFlows) Register(ctx context.Context, reg ports.Registration) FlowResult {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Role == "" {
		reg.Role = domainauth.RoleUser
	}
	if reg.Username == "" || reg.Email == "" || reg.Password == "" || !reg.Role.Valid() {
		return a.fail(ctx, "register", time.Now(), outcome.Translate(string(outcome.CodeValidation)), nil)
	}

	start := time.Now()
	if err := a.api.Register(ctx, reg); err != nil {
		return a.fail(ctx, "register", start, outcome.FromError(err), err)
	}

	o := outcome.Translate(string(outcome.CodeRegistrationSuccess))
	a.notify(o)
	a.logger.InfoContext(ctx, "registration succeeded", "username", reg.Username, "role", reg.Role)
	metrics.EmitFlow(a.metrics, metrics.FlowMetric{
		Flow: "register", Result: metrics.ResultSuccess, Code: string(o.Code), Duration: time.Since(start),
	})
	return FlowResult{Outcome: o, RedirectTo: domainauth.LoginPath, State: a.holder.Snapshot()}
}

// fail records o as LastError and returns it. Form failures are shown inline by the
// caller, so they are not queued on the notifier.
func (a *AccountFlows) fail(ctx context.Context, flow string, start time.Time, o outcome.Outcome, err error) FlowResult {
	a.holder.recordError(o)
	a.logger.WarnContext(ctx, flow+" failed", "code", o.Code, "error", err)
	metrics.EmitFlow(a.metrics, metrics.FlowMetric{
		Flow: flow, Result: metrics.ResultError, Code: string(o.Code), Duration: time.Since(start), Err: err,
	})
	return FlowResult{Outcome: o, State: a.holder.Snapshot()}
}

func (a *AccountFlows) notify(o outcome.Outcome) {
	if a.notifier != nil {
		a.notifier.Notify(o)
	}
}
