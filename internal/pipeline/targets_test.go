package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

func modelReady(state string, w time.Time, icuPct, inpPct float64) domain.ModelReadyRecord {
	return domain.ModelReadyRecord{StateWeekRecord: stateWeek(state, w, icuPct, inpPct)}
}

func TestBuildTrainingRows_ForwardTargets(t *testing.T) {
	records := []domain.ModelReadyRecord{
		modelReady("TX", week(4), 60, 70),
		modelReady("TX", week(11), 65, 75),
		modelReady("TX", week(18), 90, 80),
	}
	records[1].CovidTotal = fp(10)
	records[1].FluTotal = fp(20)
	records[1].RSVTotal = fp(5)

	rows := BuildTrainingRows(records)
	require.Len(t, rows, 2)

	assert.Equal(t, week(4), rows[0].WeekEnding)
	assert.Equal(t, 65.0, rows[0].ICUPctNextWeek)
	assert.Equal(t, 75.0, rows[0].InpatientPctNextWeek)
	assert.Equal(t, 35.0, rows[0].DiseaseBurdenNextWeek)
	assert.Equal(t, 0, rows[0].CriticalNextWeek)

	// Next week's ICU crosses 85, so the second row is critical.
	assert.Equal(t, 1, rows[1].CriticalNextWeek)
}

func TestBuildTrainingRows_CriticalFromInpatient(t *testing.T) {
	records := []domain.ModelReadyRecord{
		modelReady("TX", week(4), 60, 70),
		modelReady("TX", week(11), 50, 85),
	}

	rows := BuildTrainingRows(records)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].CriticalNextWeek)
}

func TestBuildTrainingRows_LastWeekExcluded(t *testing.T) {
	records := []domain.ModelReadyRecord{
		modelReady("TX", week(4), 60, 70),
		modelReady("TX", week(11), 65, 75),
		modelReady("CA", week(11), 55, 65),
	}

	rows := BuildTrainingRows(records)
	// CA has one week and TX loses its last: one row total.
	require.Len(t, rows, 1)
	assert.Equal(t, "TX", rows[0].State)
}

func TestBuildTrainingRows_SkipsMissingNextDisease(t *testing.T) {
	records := []domain.ModelReadyRecord{
		modelReady("TX", week(4), 60, 70),
		modelReady("TX", week(11), 65, 75),
		modelReady("TX", week(18), 70, 80),
	}
	records[1].RSVTotal = nil

	rows := BuildTrainingRows(records)
	// The week-4 row loses its target; the week-11 row still pairs with
	// week 18.
	require.Len(t, rows, 1)
	assert.Equal(t, week(11), rows[0].WeekEnding)
}

func TestSplitDate_InterpolatedQuantile(t *testing.T) {
	var rows []domain.TrainingRow
	for i := 0; i < 6; i++ {
		rows = append(rows, domain.TrainingRow{
			ModelReadyRecord: modelReady("TX", week(4).AddDate(0, 0, 7*i), 60, 70),
		})
	}

	// pos = 0.8 * 5 = 4: exactly the fifth date.
	split := SplitDate(rows)
	assert.Equal(t, week(4).AddDate(0, 0, 28), split)
}

func TestSplitDate_InterpolatesBetweenDates(t *testing.T) {
	var rows []domain.TrainingRow
	for i := 0; i < 5; i++ {
		rows = append(rows, domain.TrainingRow{
			ModelReadyRecord: modelReady("TX", week(4).AddDate(0, 0, 7*i), 60, 70),
		})
	}

	// pos = 0.8 * 4 = 3.2: twenty percent of the way from the fourth date
	// to the fifth.
	split := SplitDate(rows)
	expected := week(4).AddDate(0, 0, 21).Add(time.Duration(0.2 * float64(7*24*time.Hour)))
	assert.WithinDuration(t, expected, split, time.Second)
}

func TestSplitDate_Empty(t *testing.T) {
	assert.True(t, SplitDate(nil).IsZero())
}

func TestFilterTraining(t *testing.T) {
	var rows []domain.TrainingRow
	for i := 0; i < 4; i++ {
		rows = append(rows, domain.TrainingRow{
			ModelReadyRecord: modelReady("TX", week(4).AddDate(0, 0, 7*i), 60, 70),
		})
	}

	kept := FilterTraining(rows, week(11))
	require.Len(t, kept, 2)
	assert.Equal(t, week(4), kept[0].WeekEnding)
	assert.Equal(t, week(11), kept[1].WeekEnding)
}

// TestPipelineEndToEnd walks six raw weeks for two states through cleaning,
// feature building, and target construction.
func TestPipelineEndToEnd(t *testing.T) {
	var raw []domain.RawRecord
	for i := 0; i < 6; i++ {
		w := week(4).AddDate(0, 0, 7*i)
		raw = append(raw, rawRow("TX", w, func(m *domain.Metrics) {
			m.PctICUOccupied = fp(float64(80 + i))
			m.PctInpatientOccupied = fp(float64(70 + i))
		}))
		raw = append(raw, rawRow("CA", w, func(m *domain.Metrics) {
			m.PctICUOccupied = fp(float64(40 + i))
			m.PctInpatientOccupied = fp(float64(50 + i))
		}))
	}

	aggregated, err := AggregateStateWeek(raw, CleanOptions{Strategy: StrategyStateMedian, SkipPercentNormalization: true})
	require.NoError(t, err)
	require.Len(t, aggregated, 12)

	ready := BuildModelReady(aggregated)
	require.Len(t, ready, 4) // weeks five and six per state

	rows := BuildTrainingRows(ready)
	require.Len(t, rows, 2) // only week five of each state has a forward pair

	for _, row := range rows {
		switch row.State {
		case "TX":
			assert.Equal(t, 85.0, row.ICUPctNextWeek)
			assert.Equal(t, 1, row.CriticalNextWeek)
		case "CA":
			assert.Equal(t, 45.0, row.ICUPctNextWeek)
			assert.Equal(t, 0, row.CriticalNextWeek)
		}
	}
}
