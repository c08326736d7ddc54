package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WaitForShutdown returns a channel closed on SIGINT, SIGTERM or when ctx
// is done.
func (app *App) WaitForShutdown(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupt)

		app.Observability.Logger.Info("Waiting for shutdown signal...")
		select {
		case sig := <-interrupt:
			app.Observability.Logger.Info("Shutting down application...", "signal", sig.String())
		case <-ctx.Done():
			app.Observability.Logger.Info("Application context canceled")
		}
	}()
	return done
}
