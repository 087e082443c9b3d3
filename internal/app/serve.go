package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/vk/nsreg/internal/server"
	"golang.org/x/sync/errgroup"
)

// Handler returns the inspection HTTP handler for the app's registry.
func (a *App) Handler() http.Handler {
	srv := server.New(a.registry, a.metrics, server.Config{
		RateLimit: a.config.RateLimit,
		RateBurst: a.config.RateBurst,
	}, a.logger)
	return srv.Handler()
}

// Serve listens on the configured address and serves the inspection API
// until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.ServeAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.ServeAddr, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener serves the inspection API on ln until ctx is cancelled, then
// shuts the server down gracefully within the configured timeout.
func (a *App) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler: a.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Inspection server starting.", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("inspection server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down inspection server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("inspection server shutdown failed: %w", err)
		}
		a.logger.Debug("Inspection server shut down gracefully.")
		return nil
	})

	return g.Wait()
}
