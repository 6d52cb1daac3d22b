package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/pipeline"
)

// DefaultCriticalThreshold is the decision threshold for the critical-risk
// classifier, tuned on the held-out tail of the training history to favor
// recall on rare surge weeks over raw accuracy.
const DefaultCriticalThreshold = 0.17307460986945283

// TrainConfig controls a training run.
type TrainConfig struct {
	Forest            ForestConfig
	CriticalThreshold float64
	FeatureCols       []string

	// Now stamps Meta.TrainedAt; nil uses the package clock.
	Now func() time.Time
}

// DefaultTrainConfig returns the production training configuration.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Forest:            DefaultForestConfig(),
		CriticalThreshold: DefaultCriticalThreshold,
		FeatureCols:       FeatureCols,
	}
}

// TrainResult is the artifact bundle plus run accounting the train command
// reports.
type TrainResult struct {
	Artifacts *Artifacts

	SplitDate    time.Time
	TotalRows    int
	TrainingRows int
	SkippedRows  int
}

// Train fits the four models on the time-ordered head of the training rows.
// Rows dated after the 80th-percentile week are held out; rows with any
// unresolved feature value are skipped and counted.
func Train(rows []domain.TrainingRow, cfg TrainConfig) (*TrainResult, error) {
	if len(rows) == 0 {
		return nil, errors.New("train: no training rows")
	}
	if err := ValidateFeatures(cfg.FeatureCols); err != nil {
		return nil, err
	}

	split := pipeline.SplitDate(rows)
	train := pipeline.FilterTraining(rows, split)

	var (
		X       [][]float64
		yICU    []float64
		yInp    []float64
		yCrit   []float64
		yBurden []float64
		skipped int
	)
	for i := range train {
		vec, ok := FeatureVector(&train[i].ModelReadyRecord, cfg.FeatureCols)
		if !ok {
			skipped++
			continue
		}
		X = append(X, vec)
		yICU = append(yICU, train[i].ICUPctNextWeek)
		yInp = append(yInp, train[i].InpatientPctNextWeek)
		yCrit = append(yCrit, float64(train[i].CriticalNextWeek))
		yBurden = append(yBurden, train[i].DiseaseBurdenNextWeek)
	}
	if len(X) == 0 {
		return nil, errors.New("train: every training row was missing a feature value")
	}

	icu, err := FitForest(X, yICU, cfg.Forest)
	if err != nil {
		return nil, fmt.Errorf("train: icu model: %w", err)
	}
	inp, err := FitForest(X, yInp, cfg.Forest)
	if err != nil {
		return nil, fmt.Errorf("train: inpatient model: %w", err)
	}
	crit, err := FitLogistic(X, yCrit)
	if err != nil {
		return nil, fmt.Errorf("train: critical model: %w", err)
	}
	burden, err := FitLinear(X, yBurden)
	if err != nil {
		return nil, fmt.Errorf("train: disease burden model: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = domain.Now
	}

	art := &Artifacts{
		ICU:         icu,
		Inpatient:   inp,
		Critical:    crit,
		Disease:     burden,
		FeatureCols: append([]string(nil), cfg.FeatureCols...),
		Meta: Meta{
			RandomState:       cfg.Forest.Seed,
			CriticalThreshold: cfg.CriticalThreshold,
			SplitDate:         split.Format("2006-01-02"),
			Features:          append([]string(nil), cfg.FeatureCols...),
			RunID:             uuid.NewString(),
			TrainedAt:         now().UTC(),
			TrainingRows:      len(X),
		},
	}

	return &TrainResult{
		Artifacts:    art,
		SplitDate:    split,
		TotalRows:    len(rows),
		TrainingRows: len(X),
		SkippedRows:  skipped,
	}, nil
}
