package model

import (
	"errors"
	"sort"
	"time"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

// Forecaster applies a loaded artifact bundle to the newest model-ready
// observation of each state.
type Forecaster struct {
	art *Artifacts
}

// NewForecaster validates the artifact feature list against this build and
// wraps the bundle for inference.
func NewForecaster(art *Artifacts) (*Forecaster, error) {
	if len(art.FeatureCols) == 0 {
		return nil, errors.New("forecast: artifact feature list is empty")
	}
	if err := ValidateFeatures(art.FeatureCols); err != nil {
		return nil, err
	}
	return &Forecaster{art: art}, nil
}

// ForecastLatest produces one next-week forecast per state from the latest
// model-ready record of each state. Output is ordered critical states first,
// then by descending risk probability and predicted ICU occupancy. States
// whose latest record has an unresolved feature value are left out.
func (f *Forecaster) ForecastLatest(records []domain.ModelReadyRecord) ([]domain.ForecastRecord, error) {
	if len(records) == 0 {
		return nil, errors.New("forecast: no model-ready records")
	}

	latest := latestPerState(records)

	out := make([]domain.ForecastRecord, 0, len(latest))
	generatedAt := domain.Now().UTC()

	for _, rec := range latest {
		vec, ok := FeatureVector(rec, f.art.FeatureCols)
		if !ok {
			continue
		}

		proba := f.art.Critical.PredictProba(vec)
		pred := 0
		if proba >= f.art.Meta.CriticalThreshold {
			pred = 1
		}

		out = append(out, domain.ForecastRecord{
			State:             rec.State,
			CurrentWeek:       rec.WeekEnding,
			ForecastWeek:      rec.WeekEnding.Add(7 * 24 * time.Hour),
			ICUPctPred:        f.art.ICU.Predict(vec),
			InpatientPctPred:  f.art.Inpatient.Predict(vec),
			CriticalProba:     proba,
			CriticalPred:      pred,
			DiseaseBurdenPred: f.art.Disease.Predict(vec),
			RunID:             f.art.Meta.RunID,
			GeneratedAt:       generatedAt,
		})
	}
	if len(out) == 0 {
		return nil, errors.New("forecast: every state's latest record was missing a feature value")
	}

	// Neighbor suggestion and recommendation need the full forecast set, so
	// they run after every state has its predictions.
	lookup := make(map[string]domain.ForecastRecord, len(out))
	for _, rec := range out {
		lookup[rec.State] = rec
	}
	for i := range out {
		out[i].SuggestedNeighbor = domain.SuggestNeighbor(out[i].State, lookup)
		out[i].Recommendation = domain.RecommendAction(out[i])
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CriticalPred != out[j].CriticalPred {
			return out[i].CriticalPred > out[j].CriticalPred
		}
		if out[i].CriticalProba != out[j].CriticalProba {
			return out[i].CriticalProba > out[j].CriticalProba
		}
		return out[i].ICUPctPred > out[j].ICUPctPred
	})
	return out, nil
}

// latestPerState keeps the newest record of each state, sorted by state code
// for deterministic iteration.
func latestPerState(records []domain.ModelReadyRecord) []*domain.ModelReadyRecord {
	byState := make(map[string]*domain.ModelReadyRecord)
	for i := range records {
		rec := &records[i]
		cur, ok := byState[rec.State]
		if !ok || rec.WeekEnding.After(cur.WeekEnding) {
			byState[rec.State] = rec
		}
	}

	states := make([]string, 0, len(byState))
	for s := range byState {
		states = append(states, s)
	}
	sort.Strings(states)

	out := make([]*domain.ModelReadyRecord, len(states))
	for i, s := range states {
		out[i] = byState[s]
	}
	return out
}
