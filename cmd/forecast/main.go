// Command forecast loads the trained model artifacts, produces a next-week
// forecast for every state's latest observation, and writes the forecast
// CSVs. When Kafka brokers or a Postgres DSN are configured the run is also
// published to those sinks.
//
// Usage:
//
//	go run ./cmd/forecast -model-ready data/cleaned/model_ready.csv -models models
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	kafkaadapter "github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/adapter/kafka"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/config"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/model"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/observability"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/storage"
)

const (
	forecastFile     = "next_week_forecast_enhanced.csv"
	criticalOnlyFile = "next_week_forecast_critical_only_enhanced.csv"

	modelReadyRemedy = "run `go run ./cmd/preprocess` to produce the model-ready table"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	modelReadyPath := flag.String("model-ready", cfg.ModelReadyPath, "path to the model-ready feature table")
	modelsDir := flag.String("models", cfg.ModelsDir, "directory holding model artifacts")
	outDir := flag.String("out-dir", cfg.ForecastDir, "output directory for forecast CSVs")
	flag.Parse()

	if err := run(cfg, logger, *modelReadyPath, *modelsDir, *outDir); err != nil {
		logger.Error("forecast failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, modelReadyPath, modelsDir, outDir string) error {
	ctx := context.Background()
	metrics := observability.NewMetrics()

	records, err := storage.ReadModelReady(modelReadyPath, modelReadyRemedy)
	if err != nil {
		return err
	}

	art, err := model.LoadArtifacts(modelsDir)
	if err != nil {
		return err
	}
	forecaster, err := model.NewForecaster(art)
	if err != nil {
		return err
	}

	start := time.Now()
	forecasts, err := forecaster.ForecastLatest(records)
	if err != nil {
		return err
	}
	metrics.ForecastDuration.Observe(time.Since(start).Seconds())

	critical := make([]domain.ForecastRecord, 0)
	for _, f := range forecasts {
		if f.CriticalPred == 1 {
			critical = append(critical, f)
		}
	}
	metrics.ForecastRows.Set(float64(len(forecasts)))
	metrics.CriticalStates.Set(float64(len(critical)))

	outAll := filepath.Join(outDir, forecastFile)
	outCritical := filepath.Join(outDir, criticalOnlyFile)
	allSink := &storage.CSVForecastWriter{Path: outAll}
	criticalSink := &storage.CSVForecastWriter{Path: outCritical}
	if err := allSink.WriteForecasts(ctx, forecasts); err != nil {
		return err
	}
	if err := criticalSink.WriteForecasts(ctx, critical); err != nil {
		return err
	}
	logger.Info("wrote forecasts",
		"path", outAll,
		"states", len(forecasts),
		"critical", len(critical),
		"run_id", art.Meta.RunID,
	)

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger, metrics)
		defer writer.Close()
		if err := writer.PublishForecasts(ctx, forecasts); err != nil {
			return err
		}
	}
	if cfg.PostgresEnabled {
		pg, err := storage.NewPostgresForecastWriter(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.WriteForecasts(ctx, forecasts); err != nil {
			return err
		}
		logger.Info("wrote forecasts to postgres", "states", len(forecasts))
	}

	fmt.Println("=== Next Week Forecast ===")
	fmt.Printf("  States forecast:   %d\n", len(forecasts))
	fmt.Printf("  Critical states:   %d\n", len(critical))
	if len(forecasts) > 0 {
		fmt.Printf("  Forecast week:     %s\n", forecasts[0].ForecastWeek.Format("2006-01-02"))
	}
	for _, f := range critical {
		fmt.Printf("  CRITICAL %s  icu=%.1f%%  inpatient=%.1f%%  proba=%.2f\n",
			domain.StateLabel(f.State), f.ICUPctPred, f.InpatientPctPred, f.CriticalProba)
	}
	return nil
}
