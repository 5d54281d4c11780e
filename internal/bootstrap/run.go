package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"golang.org/x/sync/errgroup"
)

// Run listens on the configured address and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.HTTP.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the notification worker, mounts the session probe and serves HTTP on
// ln. When ctx is cancelled the server is shut down gracefully and Serve returns
// nil. Any component failing stops the others.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           a.Handler,
		ReadHeaderTimeout: a.cfg.HTTP.ReadHeaderTimeout,
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return a.Notifier.Run(gctx)
	})

	group.Go(func() error {
		a.mount(gctx)
		return nil
	})

	group.Go(func() error {
		a.logger.InfoContext(gctx, "starting HTTP server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		a.logger.Info("HTTP server stopped")
		return nil
	})

	return group.Wait()
}

// mount resolves the session once at startup. A failed probe is never fatal: the
// session simply ends Anonymous. Failures other than a missing session are shown to
// the user once per process.
func (a *App) mount(ctx context.Context) {
	if a.cfg.Session.MountTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Session.MountTimeout)
		defer cancel()
	}
	st := a.Probe.Mount(ctx)
	a.logger.InfoContext(ctx, "session mounted", "status", string(st.Status))
	if st.LastError != nil && st.LastError.Code != outcome.CodeNotAuthenticated {
		a.scope.NotifyOnce("mount", *st.LastError)
	}
}
