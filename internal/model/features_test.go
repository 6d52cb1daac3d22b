package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

func fp(v float64) *float64 { return &v }

// completeRecord fills every metric and derived feature so FeatureVector has
// no missing values.
func completeRecord(state string, icuPct float64) domain.ModelReadyRecord {
	rec := domain.ModelReadyRecord{
		StateWeekRecord: domain.StateWeekRecord{
			State:      state,
			WeekEnding: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		ICUPctLastWeek:       icuPct - 1,
		InpatientPctLastWeek: 70,
		ICUPct4wAvg:          icuPct - 2,
		InpatientPct4wAvg:    71,
		CovidTotalLastWeek:   fp(100),
		FluTotalLastWeek:     fp(50),
		RSVTotalLastWeek:     fp(20),
		CovidICULastWeek:     fp(10),
		FluICULastWeek:       fp(5),
		RSVICULastWeek:       fp(2),
	}
	for _, c := range domain.MetricColumns {
		*c.Field(&rec.Metrics) = fp(50)
	}
	rec.PctICUOccupied = fp(icuPct)
	return rec
}

func TestValidateFeatures_AllKnown(t *testing.T) {
	require.NoError(t, ValidateFeatures(FeatureCols))
}

func TestValidateFeatures_ReportsAllUnknown(t *testing.T) {
	err := ValidateFeatures([]string{domain.ColPctICUOccupied, "bogus_a", "bogus_b"})
	require.Error(t, err)

	var missing *MissingFeaturesError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"bogus_a", "bogus_b"}, missing.Features)
	assert.Contains(t, err.Error(), "missing required feature columns in data: bogus_a, bogus_b")
}

func TestFeatureVector_OrderMatchesColumns(t *testing.T) {
	rec := completeRecord("TX", 80)

	vec, ok := FeatureVector(&rec, FeatureCols)
	require.True(t, ok)
	require.Len(t, vec, len(FeatureCols))

	assert.Equal(t, 80.0, vec[0]) // current ICU percent
	assert.Equal(t, 79.0, vec[2]) // lag ICU
	assert.Equal(t, 78.0, vec[4]) // rolling ICU
	assert.Equal(t, 50.0, vec[6]) // current covid total
}

func TestFeatureVector_MissingValue(t *testing.T) {
	rec := completeRecord("TX", 80)
	rec.CovidICU = nil

	cols := []string{domain.ColPctICUOccupied, domain.ColICULastWeek}
	vec, ok := FeatureVector(&rec, cols)
	require.True(t, ok)
	assert.Equal(t, []float64{80, 79}, vec)

	_, ok = FeatureVector(&rec, FeatureCols)
	assert.False(t, ok)
}

func TestFeatureCols_Count(t *testing.T) {
	assert.Len(t, FeatureCols, 16)
}
