package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/astrotrack/astrotrack/internal/bootstrap"
	"github.com/astrotrack/astrotrack/internal/modules/service"
	"github.com/astrotrack/astrotrack/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		return serve(cmd.Context(), a)
	},
}

func serve(ctx context.Context, a *app) error {
	log := a.log

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := telemetry.SetupTracing(a.cfg)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	mp, err := telemetry.SetupMetrics(a.cfg)
	if err != nil {
		return fmt.Errorf("setup metrics: %w", err)
	}
	if mp != nil {
		if err := telemetry.InitObservationMetrics(); err != nil {
			log.Warn("observation metrics unavailable", zap.Error(err))
		}
	}
	if tp != nil || mp != nil {
		log.Sugar().Infow("telemetry enabled", "endpoint", a.cfg.Telemetry.OtlpEndpoint)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(sctx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
		if err := telemetry.ShutdownMetrics(sctx); err != nil {
			log.Warn("meter shutdown", zap.Error(err))
		}
	}()

	catalogues, err := do.Invoke[service.CatalogueService](a.inj)
	if err != nil {
		return err
	}
	if err := bootstrap.EnsureSystemCatalogues(ctx, catalogues, log); err != nil {
		return fmt.Errorf("seed system catalogues: %w", err)
	}

	engine, err := do.Invoke[*gin.Engine](a.inj)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Sugar().Infow("starting http server", "addr", addr, "backend", a.cfg.Database.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case s := <-sig:
		log.Sugar().Infow("shutting down", "signal", s.String())
	}

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
