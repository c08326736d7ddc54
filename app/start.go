package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/moto-pickem/app/api"
	userjwt "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/jwt"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 15 * time.Second

// Router builds the HTTP handler. /metrics is mounted on the API router
// only when no separate metrics address is configured.
func (app *App) Router() http.Handler {
	cfg := api.RouterConfig{
		AllowedOrigins: app.Cfg.HTTP.AllowedOrigins,
		AdminToken:     app.Cfg.HTTP.AdminToken,
		RateLimit:      rate.Limit(app.Cfg.HTTP.RateLimit),
		RateBurst:      app.Cfg.HTTP.RateBurst,
		SessionTTL:     app.Cfg.HTTP.SessionTTL,
	}
	if secret := app.Cfg.HTTP.SessionSecret; secret != "" {
		cfg.Sessions = userjwt.NewProvider(secret)
	}
	if app.Cfg.Observability.MetricsAddress == "" {
		cfg.Gatherer = app.Observability.Registry
	}
	return api.NewRouter(app.Handlers, cfg)
}

// Start runs the modules and the HTTP servers until ctx is cancelled or a
// shutdown signal arrives, then stops everything.
func (app *App) Start(ctx context.Context) error {
	logger := app.Observability.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.RunModules(ctx)

	servers := []*http.Server{{
		Addr:              app.Cfg.HTTP.Addr,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if addr := app.Cfg.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(app.Observability.Registry, promhttp.HandlerOpts{}))
		servers = append(servers, &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		logger.InfoContext(ctx, "Starting HTTP server", attr.String("addr", srv.Addr))
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	var runErr error
	select {
	case runErr = <-errCh:
		logger.ErrorContext(ctx, "HTTP server failed", attr.Error(runErr))
	case <-app.WaitForShutdown(ctx):
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", attr.String("addr", srv.Addr), attr.Error(err))
		}
	}

	cancel()
	if err := app.Close(); err != nil && runErr == nil {
		runErr = err
	}
	logger.Info("Application shut down gracefully")
	return runErr
}
