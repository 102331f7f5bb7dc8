package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avialine/backoffice/internal/config"
	"github.com/avialine/backoffice/internal/health"
	"github.com/avialine/backoffice/internal/observability"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	Readiness     *health.ProbeRunner

	ShutdownTimeout              time.Duration
	ShutdownHTTPDrainTimeout     time.Duration
	ShutdownObservabilityTimeout time.Duration

	stop func()
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	readiness *health.ProbeRunner,
	stop func(),
) *App {
	return &App{
		Config:                       cfg,
		Logger:                       logger,
		Server:                       server,
		Observability:                runtime,
		Readiness:                    readiness,
		ShutdownTimeout:              cfg.ShutdownTimeout,
		ShutdownHTTPDrainTimeout:     cfg.ShutdownHTTPDrainTimeout,
		ShutdownObservabilityTimeout: cfg.ShutdownObservabilityTimeout,
		stop:                         stop,
	}
}

// StopBackgroundTasks runs the registered cleanup callback, if any.
func (a *App) StopBackgroundTasks() {
	if a.stop != nil {
		a.stop()
	}
}

// Run serves until the context is canceled or SIGINT/SIGTERM arrives,
// then drains connections and shuts the observability pipeline down
// within the configured timeouts.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("http server listening", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutdown requested")

		drainCtx, drainCancel := context.WithTimeout(context.Background(), a.ShutdownHTTPDrainTimeout)
		defer drainCancel()
		if err := a.Server.Shutdown(drainCtx); err != nil {
			a.Logger.Error("http drain failed", "error", err)
			_ = a.Server.Close()
		}
		return nil
	})

	err := g.Wait()
	a.StopBackgroundTasks()

	obsCtx, obsCancel := context.WithTimeout(context.Background(), a.ShutdownObservabilityTimeout)
	defer obsCancel()
	if obsErr := a.Observability.Shutdown(obsCtx); obsErr != nil {
		a.Logger.Error("observability shutdown failed", "error", obsErr)
	}
	a.Logger.Info("shutdown complete")
	return err
}
