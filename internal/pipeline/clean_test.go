package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

func fp(v float64) *float64 { return &v }

func week(day int) time.Time {
	return time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC)
}

// rawRow builds a raw record with every metric populated, then applies
// overrides.
func rawRow(state string, w time.Time, mutate func(*domain.Metrics)) domain.RawRecord {
	rec := domain.RawRecord{WeekEnding: w, State: state}
	for _, c := range domain.MetricColumns {
		*c.Field(&rec.Metrics) = fp(50)
	}
	if mutate != nil {
		mutate(&rec.Metrics)
	}
	return rec
}

func TestParseRawTable_MissingColumns(t *testing.T) {
	header := []string{domain.ColWeekEnding, domain.ColGeo, domain.ColICUBeds}

	_, err := ParseRawTable(header, nil)
	require.Error(t, err)

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Columns, domain.ColPctICUOccupied)
	assert.NotContains(t, missing.Columns, domain.ColICUBeds)
	assert.Contains(t, err.Error(), "missing required columns in raw CSV")
}

func TestParseRawTable_HeaderWhitespaceStripped(t *testing.T) {
	header := make([]string, len(RequiredColumns))
	for i, c := range RequiredColumns {
		header[i] = "  " + c + " "
	}

	row := make([]string, len(header))
	row[0] = "2025-01-04"
	row[1] = "TX"
	for i := 2; i < len(row); i++ {
		row[i] = "10"
	}

	records, err := ParseRawTable(header, [][]string{row})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "TX", records[0].State)
	assert.Equal(t, week(4), records[0].WeekEnding)
	assert.Equal(t, 10.0, *records[0].ICUBeds)
}

func TestParseRawTable_SkipsBadRows(t *testing.T) {
	header := append([]string(nil), RequiredColumns...)
	good := make([]string, len(header))
	good[0], good[1] = "2025-01-04", "TX"
	badDate := append([]string(nil), good...)
	badDate[0] = "not-a-date"
	noState := append([]string(nil), good...)
	noState[1] = ""

	records, err := ParseRawTable(header, [][]string{good, badDate, noState})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParseRawTable_NonNumericCellBecomesMissing(t *testing.T) {
	header := append([]string(nil), RequiredColumns...)
	row := make([]string, len(header))
	row[0], row[1] = "2025-01-04", "TX"
	row[2] = "n/a"
	row[3] = "120"

	records, err := ParseRawTable(header, [][]string{row})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].InpatientBeds)
	assert.Equal(t, 120.0, *records[0].InpatientBedsOccupied)
}

func TestNormalizePercent_ProportionsScaled(t *testing.T) {
	vals := []*float64{fp(0.85), fp(0.5), nil, fp(1.0)}
	NormalizePercent(vals)

	assert.InDelta(t, 85, *vals[0], 1e-9)
	assert.InDelta(t, 50, *vals[1], 1e-9)
	assert.Nil(t, vals[2])
	assert.InDelta(t, 100, *vals[3], 1e-9)
}

func TestNormalizePercent_AlreadyPercentUntouched(t *testing.T) {
	// One value above 1.5 marks the whole column as percent-encoded.
	vals := []*float64{fp(0.4), fp(85)}
	NormalizePercent(vals)

	assert.Equal(t, 0.4, *vals[0])
	assert.Equal(t, 85.0, *vals[1])
}

func TestNormalizePercent_AllMissing(t *testing.T) {
	vals := []*float64{nil, nil}
	NormalizePercent(vals)
	assert.Nil(t, vals[0])
	assert.Nil(t, vals[1])
}

func TestAggregateStateWeek_UnknownStrategy(t *testing.T) {
	_, err := AggregateStateWeek(nil, CleanOptions{Strategy: "mean"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestAggregateStateWeek_FiltersTerritories(t *testing.T) {
	records := []domain.RawRecord{
		rawRow("TX", week(4), nil),
		rawRow("PR", week(4), nil),
		rawRow("USA", week(4), nil),
	}

	out, err := AggregateStateWeek(records, CleanOptions{Strategy: StrategyStateMedian})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "TX", out[0].State)

	kept, err := AggregateStateWeek(records, CleanOptions{Strategy: StrategyStateMedian, KeepTerritories: true})
	require.NoError(t, err)
	assert.Len(t, kept, 3)
}

func TestAggregateStateWeek_SumsAndMeans(t *testing.T) {
	records := []domain.RawRecord{
		rawRow("TX", week(4), func(m *domain.Metrics) {
			m.ICUBeds = fp(100)
			m.PctICUOccupied = fp(80)
		}),
		rawRow("TX", week(4), func(m *domain.Metrics) {
			m.ICUBeds = fp(40)
			m.PctICUOccupied = fp(60)
		}),
	}

	out, err := AggregateStateWeek(records, CleanOptions{Strategy: StrategyStateMedian, SkipPercentNormalization: true})
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, 140.0, *out[0].ICUBeds)
	assert.Equal(t, 70.0, *out[0].PctICUOccupied)
}

func TestAggregateStateWeek_MissingContributions(t *testing.T) {
	records := []domain.RawRecord{
		rawRow("TX", week(4), func(m *domain.Metrics) {
			m.CovidTotal = nil
			m.PctHospReportingICU = nil
		}),
		rawRow("TX", week(4), func(m *domain.Metrics) {
			m.CovidTotal = nil
			m.PctHospReportingICU = nil
		}),
	}

	out, err := AggregateStateWeek(records, CleanOptions{Strategy: StrategyStateMedian, SkipPercentNormalization: true})
	require.NoError(t, err)
	require.Len(t, out, 1)

	// All-missing sums collapse to zero; all-missing means stay missing and
	// then fill from the state median, which does not exist here either.
	assert.Equal(t, 0.0, *out[0].CovidTotal)
	assert.Nil(t, out[0].PctHospReportingICU)
}

func TestAggregateStateWeek_DropStrategy(t *testing.T) {
	records := []domain.RawRecord{
		rawRow("TX", week(4), nil),
		rawRow("TX", week(11), func(m *domain.Metrics) { m.PctICUOccupied = nil }),
	}

	out, err := AggregateStateWeek(records, CleanOptions{Strategy: StrategyDrop, SkipPercentNormalization: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, week(4), out[0].WeekEnding)
}

func TestAggregateStateWeek_FFillStrategy(t *testing.T) {
	records := []domain.RawRecord{
		rawRow("TX", week(4), func(m *domain.Metrics) { m.PctICUOccupied = fp(77) }),
		rawRow("TX", week(11), func(m *domain.Metrics) { m.PctICUOccupied = nil }),
		// Leading missing value cannot fill and the row drops.
		rawRow("CA", week(4), func(m *domain.Metrics) { m.FluTotal = nil }),
	}

	out, err := AggregateStateWeek(records, CleanOptions{Strategy: StrategyFFill, SkipPercentNormalization: true})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "TX", out[0].State)
	assert.Equal(t, 77.0, *out[1].PctICUOccupied)
}

func TestAggregateStateWeek_StateMedianStaysIntraState(t *testing.T) {
	records := []domain.RawRecord{
		rawRow("CA", week(4), func(m *domain.Metrics) { m.FluTotal = fp(1000) }),
		rawRow("TX", week(4), func(m *domain.Metrics) { m.FluTotal = fp(10) }),
		rawRow("TX", week(11), func(m *domain.Metrics) { m.FluTotal = fp(30) }),
		rawRow("TX", week(18), func(m *domain.Metrics) { m.FluTotal = nil }),
	}

	out, err := AggregateStateWeek(records, CleanOptions{Strategy: StrategyStateMedian, SkipPercentNormalization: true})
	require.NoError(t, err)
	require.Len(t, out, 4)

	// TX median of {10, 30} is 20; CA's 1000 must not leak in.
	var filled *float64
	for _, r := range out {
		if r.State == "TX" && r.WeekEnding.Equal(week(18)) {
			filled = r.FluTotal
		}
	}
	require.NotNil(t, filled)
	assert.Equal(t, 20.0, *filled)
}

func TestAggregateStateWeek_StateMedianDropsMissingTargets(t *testing.T) {
	records := []domain.RawRecord{
		// Occupancy percentages missing in every TX week: medians cannot
		// fill them and the rows drop.
		rawRow("TX", week(4), func(m *domain.Metrics) { m.PctICUOccupied = nil }),
		rawRow("TX", week(11), func(m *domain.Metrics) { m.PctICUOccupied = nil }),
		rawRow("CA", week(4), nil),
	}

	out, err := AggregateStateWeek(records, CleanOptions{Strategy: StrategyStateMedian, SkipPercentNormalization: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "CA", out[0].State)
}

func TestAggregateStateWeek_SortedOutput(t *testing.T) {
	records := []domain.RawRecord{
		rawRow("TX", week(11), nil),
		rawRow("CA", week(18), nil),
		rawRow("TX", week(4), nil),
		rawRow("CA", week(4), nil),
	}

	out, err := AggregateStateWeek(records, CleanOptions{Strategy: StrategyStateMedian, SkipPercentNormalization: true})
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, "CA", out[0].State)
	assert.Equal(t, week(4), out[0].WeekEnding)
	assert.Equal(t, "CA", out[1].State)
	assert.Equal(t, week(18), out[1].WeekEnding)
	assert.Equal(t, "TX", out[2].State)
	assert.Equal(t, week(4), out[2].WeekEnding)
}

func TestParseStrategy(t *testing.T) {
	for _, valid := range []string{"drop", "ffill", "state_median"} {
		s, err := ParseStrategy(valid)
		require.NoError(t, err)
		assert.Equal(t, Strategy(valid), s)
	}

	_, err := ParseStrategy("mode")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 7.0, median([]float64{7}))
}
