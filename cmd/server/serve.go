package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/personnel-engine/api"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the sweep scheduler",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	metrics := api.NewMetrics(prometheus.DefaultRegisterer)
	handler := api.NewHandler(a.svc, a.policies, a.logger, metrics)
	router := api.NewRouter(handler, api.RouterOptions{AllowOrigins: a.cfg.Server.CORS.AllowOrigins})

	scheduler := api.NewSweepScheduler(a.svc, metrics, a.logger.Named("scheduler"))
	scheduler.Enabled = a.cfg.Scheduler.Enabled
	if a.cfg.Scheduler.Interval > 0 {
		scheduler.Interval = a.cfg.Scheduler.Interval
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
