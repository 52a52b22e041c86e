package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fleet-chatbot/internal/api"
	"fleet-chatbot/internal/common/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chatbot HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapLog.Info("Starting chatbot API...")
	a, err := newApp(ctx, cfg, zapLog, 15, "fleet-chatbot-api")
	if err != nil {
		return err
	}
	defer a.close()

	apiServer := &http.Server{
		Addr: cfg.Server.Address,
		Handler: api.NewRouter(api.Options{
			Asker:          a.service,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RequestTimeout: config.GetDuration(cfg.Server.WriteTimeout),
			Checks:         a.readinessChecks(),
			Logger:         a.log,
		}),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: cfg.Server.MetricsAddress, Handler: metricsMux}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return listen(apiServer, "API") })
	g.Go(func() error { return listen(metricsServer, "Metrics") })
	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("Shutdown signal received, stopping servers...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		return errors.Join(apiServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("server stopped with error", zap.Error(err))
		return err
	}
	zapLog.Info("Chatbot API stopped gracefully")
	return nil
}

func listen(srv *http.Server, name string) error {
	zapLog.Info(name+" server listening", zap.String("address", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
