package pipeline

import (
	"sort"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

// rollingWindow is the trailing window length (inclusive of the current
// week) for the occupancy rolling means.
const rollingWindow = 4

// minPriorWeeks is how many consecutive prior observations a state-week
// needs before it is materialized as model-ready. Rows with less history are
// dropped, never backfilled or given partial windows.
const minPriorWeeks = 4

// BuildModelReady derives lag and rolling features within each state's
// chronological sequence: lag-1 values for the occupancy percentages and the
// six disease counts, and trailing 4-week rolling means for the occupancy
// percentages. Only weeks with at least minPriorWeeks prior observations for
// their state produce a record.
func BuildModelReady(stateWeek []domain.StateWeekRecord) []domain.ModelReadyRecord {
	ordered := append([]domain.StateWeekRecord(nil), stateWeek...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].State != ordered[j].State {
			return ordered[i].State < ordered[j].State
		}
		return ordered[i].WeekEnding.Before(ordered[j].WeekEnding)
	})

	var out []domain.ModelReadyRecord
	for start := 0; start < len(ordered); {
		end := start
		for end < len(ordered) && ordered[end].State == ordered[start].State {
			end++
		}
		out = append(out, buildStateFeatures(ordered[start:end])...)
		start = end
	}
	return out
}

// buildStateFeatures derives features for one state's chronologically sorted
// sequence.
func buildStateFeatures(seq []domain.StateWeekRecord) []domain.ModelReadyRecord {
	var out []domain.ModelReadyRecord
	for i := minPriorWeeks; i < len(seq); i++ {
		cur, prev := seq[i], seq[i-1]

		// Occupancy percentages are guaranteed non-missing by every
		// imputation strategy, so the gating features always resolve.
		rec := domain.ModelReadyRecord{
			StateWeekRecord:      cur,
			ICUPctLastWeek:       *prev.PctICUOccupied,
			InpatientPctLastWeek: *prev.PctInpatientOccupied,
			ICUPct4wAvg:          rollingMean(seq[i-rollingWindow+1:i+1], func(r *domain.StateWeekRecord) *float64 { return r.PctICUOccupied }),
			InpatientPct4wAvg:    rollingMean(seq[i-rollingWindow+1:i+1], func(r *domain.StateWeekRecord) *float64 { return r.PctInpatientOccupied }),

			CovidTotalLastWeek: copyPtr(prev.CovidTotal),
			FluTotalLastWeek:   copyPtr(prev.FluTotal),
			RSVTotalLastWeek:   copyPtr(prev.RSVTotal),
			CovidICULastWeek:   copyPtr(prev.CovidICU),
			FluICULastWeek:     copyPtr(prev.FluICU),
			RSVICULastWeek:     copyPtr(prev.RSVICU),
		}
		out = append(out, rec)
	}
	return out
}

func rollingMean(window []domain.StateWeekRecord, get func(*domain.StateWeekRecord) *float64) float64 {
	sum := 0.0
	for i := range window {
		sum += *get(&window[i])
	}
	return sum / float64(len(window))
}

func copyPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
