// Command preprocess turns the raw CDC weekly hospital respiratory export
// into the cleaned state-week table and the model-ready feature table.
//
// Usage:
//
//	go run ./cmd/preprocess \
//	  -input data/raw/Weekly_Hospital_Respiratory_Data.csv \
//	  -strategy state_median
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/config"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/observability"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/pipeline"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/storage"
)

const rawRemedy = "download the CDC Weekly Hospital Respiratory Data export and place it at the configured path"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	input := flag.String("input", cfg.RawCSVPath, "path to the raw CDC export CSV")
	stateWeek := flag.String("state-week", cfg.StateWeekPath, "output path for the aggregated state-week table")
	modelReady := flag.String("model-ready", cfg.ModelReadyPath, "output path for the model-ready feature table")
	strategy := flag.String("strategy", string(cfg.MissingStrategy), "missing-value strategy: drop, ffill, or state_median")
	keepTerritories := flag.Bool("keep-territories", cfg.KeepTerritories, "keep geographic codes outside the 50 states")
	skipNormalize := flag.Bool("skip-normalize", false, "disable the percent-encoding normalization heuristic")
	flag.Parse()

	if err := run(logger, *input, *stateWeek, *modelReady, *strategy, *keepTerritories, *skipNormalize); err != nil {
		logger.Error("preprocess failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, input, stateWeekPath, modelReadyPath, strategyStr string, keepTerritories, skipNormalize bool) error {
	strategy, err := pipeline.ParseStrategy(strategyStr)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()

	header, rows, err := storage.ReadCSVTable(input, rawRemedy)
	if err != nil {
		return err
	}
	logger.Info("loaded raw export", "path", input, "rows", len(rows))

	raw, err := pipeline.ParseRawTable(header, rows)
	if err != nil {
		return err
	}
	metrics.RawRowsParsed.Add(float64(len(raw)))
	metrics.RowsDroppedClean.Add(float64(len(rows) - len(raw)))

	aggregated, err := pipeline.AggregateStateWeek(raw, pipeline.CleanOptions{
		KeepTerritories:          keepTerritories,
		Strategy:                 strategy,
		SkipPercentNormalization: skipNormalize,
	})
	if err != nil {
		return err
	}
	if err := storage.WriteStateWeek(stateWeekPath, aggregated); err != nil {
		return err
	}
	logger.Info("wrote state-week table", "path", stateWeekPath, "rows", len(aggregated), "strategy", strategy)

	modelReady := pipeline.BuildModelReady(aggregated)
	if err := storage.WriteModelReady(modelReadyPath, modelReady); err != nil {
		return err
	}
	logger.Info("wrote model-ready table", "path", modelReadyPath, "rows", len(modelReady))

	states := map[string]bool{}
	for _, r := range aggregated {
		states[r.State] = true
	}

	fmt.Println("=== Preprocessing Summary ===")
	fmt.Printf("  Raw rows parsed:    %d\n", len(raw))
	fmt.Printf("  State-week rows:    %d (%d states)\n", len(aggregated), len(states))
	fmt.Printf("  Model-ready rows:   %d\n", len(modelReady))
	fmt.Printf("  Missing strategy:   %s\n", strategy)
	return nil
}
