// Command train fits the forecasting models on the model-ready table and
// writes the JSON model artifacts.
//
// Usage:
//
//	go run ./cmd/train -model-ready data/cleaned/model_ready.csv -models models
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/config"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/model"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/observability"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/pipeline"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/storage"
)

const modelReadyRemedy = "run `go run ./cmd/preprocess` to produce the model-ready table"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	modelReadyPath := flag.String("model-ready", cfg.ModelReadyPath, "path to the model-ready feature table")
	modelsDir := flag.String("models", cfg.ModelsDir, "output directory for model artifacts")
	threshold := flag.Float64("threshold", model.DefaultCriticalThreshold, "critical-risk decision threshold")
	flag.Parse()

	if err := run(logger, *modelReadyPath, *modelsDir, *threshold); err != nil {
		logger.Error("training failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, modelReadyPath, modelsDir string, threshold float64) error {
	metrics := observability.NewMetrics()

	records, err := storage.ReadModelReady(modelReadyPath, modelReadyRemedy)
	if err != nil {
		return err
	}
	logger.Info("loaded model-ready table", "path", modelReadyPath, "rows", len(records))

	rows := pipeline.BuildTrainingRows(records)
	logger.Info("built training rows", "rows", len(rows))

	trainCfg := model.DefaultTrainConfig()
	trainCfg.CriticalThreshold = threshold

	start := time.Now()
	result, err := model.Train(rows, trainCfg)
	if err != nil {
		return err
	}
	metrics.TrainingDuration.Observe(time.Since(start).Seconds())

	if err := model.SaveArtifacts(modelsDir, result.Artifacts); err != nil {
		return err
	}
	logger.Info("wrote model artifacts",
		"dir", modelsDir,
		"run_id", result.Artifacts.Meta.RunID,
		"training_rows", result.TrainingRows,
	)

	fmt.Println("=== Training Summary ===")
	fmt.Printf("  Rows with targets:  %d\n", result.TotalRows)
	fmt.Printf("  Training rows:      %d (split at %s)\n", result.TrainingRows, result.SplitDate.Format("2006-01-02"))
	fmt.Printf("  Skipped (missing):  %d\n", result.SkippedRows)
	fmt.Printf("  Critical threshold: %g\n", result.Artifacts.Meta.CriticalThreshold)
	fmt.Printf("  Run ID:             %s\n", result.Artifacts.Meta.RunID)
	fmt.Printf("  Duration:           %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
