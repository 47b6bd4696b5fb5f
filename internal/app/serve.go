package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/bnema/virtdock/internal/adapters/in/http/middleware"
	"github.com/bnema/virtdock/internal/adapters/in/http/translate"
)

// Handler builds the HTTP API handler with its middleware chain.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	translate.NewHandler(a.Translator, a.Encoder, a.Config.Output.Format, a.Log).RegisterRoutes(mux)

	chain := []func(http.Handler) http.Handler{
		middleware.PanicRecovery(a.Log),
		middleware.RequestLogger(a.Log),
		middleware.SecurityHeaders,
	}
	if a.limiter != nil {
		chain = append(chain, middleware.RateLimit(a.limiter, a.Log, "/healthz"))
	}

	return middleware.Chain(chain...)(mux)
}

// Serve runs the HTTP API on the configured address until ctx is cancelled
// or a termination signal arrives, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.Config.Server.Addr)
	if err != nil {
		return a.Log.WrapErr(err, "failed to listen")
	}
	return a.ServeListener(ctx, listener)
}

// ServeListener is Serve on an existing listener.
func (a *App) ServeListener(ctx context.Context, listener net.Listener) error {
	log := a.Log

	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if a.limiter != nil {
		sweepCtx, stopSweep := context.WithCancel(ctx)
		defer stopSweep()
		go a.limiter.Run(sweepCtx, time.Minute)
	}

	log.Info().
		Str(zerowrap.FieldLayer, "app").
		Str(zerowrap.FieldComponent, "http").
		Str("addr", listener.Addr().String()).
		Bool("rate_limit", a.limiter != nil).
		Msg("HTTP API listening")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-ctx.Done():
		log.Info().
			Str(zerowrap.FieldLayer, "app").
			Msg("context cancelled, shutting down")
	case sig := <-quit:
		log.Info().
			Str(zerowrap.FieldLayer, "app").
			Str("signal", sig.String()).
			Msg("received shutdown signal")
	case err := <-serveErr:
		if err != nil {
			return log.WrapErr(err, "HTTP server error")
		}
		return nil
	}

	timeout := a.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return log.WrapErr(err, "HTTP server shutdown error")
	}

	log.Info().
		Str(zerowrap.FieldLayer, "app").
		Msg("HTTP API stopped")

	return nil
}
