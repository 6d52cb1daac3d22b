package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

func fp(v float64) *float64 { return &v }

func sampleStateWeek() []domain.StateWeekRecord {
	rec := domain.StateWeekRecord{
		State:      "TX",
		WeekEnding: time.Date(2025, time.January, 4, 0, 0, 0, 0, time.UTC),
	}
	for i, c := range domain.MetricColumns {
		*c.Field(&rec.Metrics) = fp(float64(10 * (i + 1)))
	}

	partial := domain.StateWeekRecord{
		State:      "CA",
		WeekEnding: time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC),
	}
	partial.PctICUOccupied = fp(65.5)
	partial.PctInpatientOccupied = fp(72.25)

	return []domain.StateWeekRecord{rec, partial}
}

func TestStateWeek_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state_week.csv")
	records := sampleStateWeek()

	require.NoError(t, WriteStateWeek(path, records))

	loaded, err := ReadStateWeek(path, "rerun preprocess")
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, records[0], loaded[0])
	assert.Equal(t, "CA", loaded[1].State)
	assert.Equal(t, 65.5, *loaded[1].PctICUOccupied)
	assert.Nil(t, loaded[1].ICUBeds) // empty cell reads back as missing
}

func TestReadStateWeek_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")

	_, err := ReadStateWeek(path, "run `go run ./cmd/preprocess`")
	require.Error(t, err)

	var missing *MissingInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, path, missing.Path)
	assert.Contains(t, err.Error(), "cmd/preprocess")
}

func TestReadStateWeek_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Geographic aggregation,Week Ending Date\nTX,2025-01-04\n"), 0o644))

	_, err := ReadStateWeek(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestModelReady_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model_ready.csv")

	rec := domain.ModelReadyRecord{
		StateWeekRecord:      sampleStateWeek()[0],
		ICUPctLastWeek:       61.5,
		InpatientPctLastWeek: 71.5,
		ICUPct4wAvg:          60.25,
		InpatientPct4wAvg:    70.75,
		CovidTotalLastWeek:   fp(120),
		FluTotalLastWeek:     fp(45),
		RSVTotalLastWeek:     nil, // stays missing through the roundtrip
		CovidICULastWeek:     fp(12),
		FluICULastWeek:       fp(4),
		RSVICULastWeek:       fp(1),
	}

	require.NoError(t, WriteModelReady(path, []domain.ModelReadyRecord{rec}))

	loaded, err := ReadModelReady(path, "")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, rec, loaded[0])
}

func TestForecasts_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.csv")

	records := []domain.ForecastRecord{
		{
			State:             "TX",
			CurrentWeek:       time.Date(2025, time.January, 4, 0, 0, 0, 0, time.UTC),
			ForecastWeek:      time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC),
			ICUPctPred:        88.125,
			InpatientPctPred:  79.5,
			CriticalProba:     0.42,
			CriticalPred:      1,
			DiseaseBurdenPred: 1234,
			SuggestedNeighbor: "OK",
			Recommendation:    "HIGH RISK: Increase surge monitoring, review staffing/bed capacity plans, and coordinate regionally for potential load balancing. Potential lower-risk neighbor: OK.",
			RunID:             "run-1",
			GeneratedAt:       time.Date(2025, time.January, 5, 6, 0, 0, 0, time.UTC),
		},
		{
			State:          "OK",
			CurrentWeek:    time.Date(2025, time.January, 4, 0, 0, 0, 0, time.UTC),
			ForecastWeek:   time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC),
			ICUPctPred:     45,
			Recommendation: "LOW: Normal monitoring.",
			GeneratedAt:    time.Date(2025, time.January, 5, 6, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, WriteForecasts(path, records))

	loaded, err := ReadForecasts(path, "")
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestWriteForecasts_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "forecast.csv")

	require.NoError(t, WriteForecasts(path, nil))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestReadCSVTable_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, _, err := ReadCSVTable(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestReadCSVTable_RaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,2\n1,2,3,4\n"), 0o644))

	header, rows, err := ReadCSVTable(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, header)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 2)
}

func TestCSVForecastWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecast.csv")
	w := &CSVForecastWriter{Path: path}

	require.NoError(t, w.WriteForecasts(context.Background(),[]domain.ForecastRecord{{
		State:        "TX",
		CurrentWeek:  time.Date(2025, time.January, 4, 0, 0, 0, 0, time.UTC),
		ForecastWeek: time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC),
		GeneratedAt:  time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
	}}))

	loaded, err := ReadForecasts(path, "")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
