package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

// BuildTrainingRows joins each model-ready record with its forward-looking
// targets: next week's occupancy percentages, next week's disease burden
// (COVID-19 + influenza + RSV totals), and the binary critical-stress label
// (next ICU% >= 85 or next inpatient% >= 85). The last observed week of each
// state has no forward target and is excluded, as is any row whose next week
// is missing a disease total.
func BuildTrainingRows(modelReady []domain.ModelReadyRecord) []domain.TrainingRow {
	ordered := append([]domain.ModelReadyRecord(nil), modelReady...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].State != ordered[j].State {
			return ordered[i].State < ordered[j].State
		}
		return ordered[i].WeekEnding.Before(ordered[j].WeekEnding)
	})

	var out []domain.TrainingRow
	for i := 0; i+1 < len(ordered); i++ {
		cur, next := ordered[i], ordered[i+1]
		if cur.State != next.State {
			continue
		}

		burden, ok := diseaseBurden(next.StateWeekRecord)
		if !ok {
			continue
		}
		if next.PctICUOccupied == nil || next.PctInpatientOccupied == nil {
			continue
		}

		icuNext := *next.PctICUOccupied
		inpNext := *next.PctInpatientOccupied

		critical := 0
		if icuNext >= 85 || inpNext >= 85 {
			critical = 1
		}

		out = append(out, domain.TrainingRow{
			ModelReadyRecord:      cur,
			ICUPctNextWeek:        icuNext,
			InpatientPctNextWeek:  inpNext,
			DiseaseBurdenNextWeek: burden,
			CriticalNextWeek:      critical,
		})
	}
	return out
}

// diseaseBurden sums the three overall disease totals of a state-week.
func diseaseBurden(rec domain.StateWeekRecord) (float64, bool) {
	if rec.CovidTotal == nil || rec.FluTotal == nil || rec.RSVTotal == nil {
		return 0, false
	}
	return *rec.CovidTotal + *rec.FluTotal + *rec.RSVTotal, true
}

// SplitDate returns the 80th-percentile week-ending date across the rows,
// using linear interpolation over the sorted date multiset (matching a
// quantile over a datetime column). Training rows are those dated at or
// before this split; the ordering-preserving split avoids temporal leakage.
func SplitDate(rows []domain.TrainingRow) time.Time {
	if len(rows) == 0 {
		return time.Time{}
	}
	dates := make([]time.Time, len(rows))
	for i, r := range rows {
		dates[i] = r.WeekEnding
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	pos := 0.8 * float64(len(dates)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return dates[lo]
	}
	frac := pos - float64(lo)
	span := dates[hi].Sub(dates[lo])
	return dates[lo].Add(time.Duration(frac * float64(span)))
}

// FilterTraining keeps rows dated at or before the split date.
func FilterTraining(rows []domain.TrainingRow, split time.Time) []domain.TrainingRow {
	out := rows[:0:0]
	for _, r := range rows {
		if !r.WeekEnding.After(split) {
			out = append(out, r)
		}
	}
	return out
}
