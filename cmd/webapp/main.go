// Command webapp serves the forecast browsing UI and JSON API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/config"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/observability"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/webapp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	forecastPath := filepath.Join(cfg.ForecastDir, "next_week_forecast_enhanced.csv")
	store := webapp.NewForecastStore(forecastPath, metrics)
	server := webapp.NewServer(store, logger, metrics)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("webapp listening", "addr", cfg.HTTPAddr, "forecast", forecastPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
