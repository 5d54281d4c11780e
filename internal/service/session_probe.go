package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/metrics"
	"github.com/BemwaMalak/mini-full-stack/internal/observability/statsd"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
	"golang.org/x/sync/singleflight"
)

const probeFlight = "identity"

// SessionProbeOptions groups dependencies for SessionProbe.
type SessionProbeOptions struct {
	API     ports.IdentityAPI
	Holder  *SessionHolder
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// SessionProbe establishes ground truth for the session by asking the identity endpoint.
type SessionProbe struct {
	api     ports.IdentityAPI
	holder  *SessionHolder
	metrics statsd.Sink
	logger  *slog.Logger

	flight singleflight.Group
	mount  sync.Once
}

// NewSessionProbe constructs a SessionProbe.
func NewSessionProbe(opts SessionProbeOptions) *SessionProbe {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Noop{}
	}
	return &SessionProbe{
		api:     opts.API,
		holder:  opts.Holder,
		metrics: sink,
		logger:  logger.With("component", "session_probe"),
	}
}

// Mount resolves the session the first time it is called and is a no-op afterwards.
// It returns the current state either way.
func (p *SessionProbe) Mount(ctx context.Context) domainauth.SessionState {
	p.mount.Do(func() {
		p.Resolve(ctx)
	})
	return p.holder.Snapshot()
}

// Resolve issues one identity call and commits the resulting state. Concurrent callers
// share a single in-flight request. It never fails: every error ends in Anonymous with
// the translated outcome recorded as LastError. Nothing is retried.
func (p *SessionProbe) Resolve(ctx context.Context) domainauth.SessionState {
	v, _, _ := p.flight.Do(probeFlight, func() (any, error) {
		return p.resolve(ctx), nil
	})
	st, ok := v.(domainauth.SessionState)
	if !ok {
		return p.holder.Snapshot()
	}
	return st.Clone()
}

func (p *SessionProbe) resolve(ctx context.Context) domainauth.SessionState {
	tok := p.holder.begin()
	start := time.Now()

	id, err := p.api.FetchIdentity(ctx)
	st := p.stateFor(ctx, id, err)

	if !p.holder.commit(tok, st) {
		p.logger.InfoContext(ctx, "discarding stale probe result", "status", st.Status)
		metrics.EmitFlow(p.metrics, metrics.FlowMetric{Flow: "probe", Result: metrics.ResultStale})
		return p.holder.Snapshot()
	}

	m := metrics.FlowMetric{Flow: "probe", Result: metrics.ResultSuccess, Duration: time.Since(start), Err: err}
	if st.LastError != nil {
		m.Result = metrics.ResultError
		m.Code = string(st.LastError.Code)
	}
	metrics.EmitFlow(p.metrics, m)
	return st
}

func (p *SessionProbe) stateFor(ctx context.Context, id domainauth.Identity, err error) domainauth.SessionState {
	if err == nil {
		p.logger.InfoContext(ctx, "session resolved", "username", id.Username, "role", id.Role)
		return domainauth.Authenticated(id)
	}

	o := outcome.FromError(err)
	var se *outcome.ServerError
	switch {
	case errors.As(err, &se):
		p.logger.InfoContext(ctx, "session not authenticated", "status", se.Status, "code", o.Code)
	case errors.Is(err, ports.ErrMalformedIdentity):
		p.logger.WarnContext(ctx, "identity payload rejected", "error", err)
	default:
		p.logger.WarnContext(ctx, "identity call failed", "error", err)
	}
	return domainauth.Anonymous(&o)
}
