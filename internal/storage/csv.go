// Package storage reads and writes the pipeline's file formats: the raw CDC
// export, the cleaned state-week table, the model-ready feature table, and
// the forecast output, plus an optional relational sink for forecasts.
package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

const dateLayout = "2006-01-02"

// MissingInputError reports an absent input file together with the command
// that produces it.
type MissingInputError struct {
	Path   string
	Remedy string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input file not found at %s: %s", e.Path, e.Remedy)
}

// ForecastWriter is a sink for one forecast run's full record set.
type ForecastWriter interface {
	WriteForecasts(ctx context.Context, records []domain.ForecastRecord) error
}

// ReadCSVTable loads a CSV file as a header row plus data rows. Ragged rows
// are tolerated; short rows read as missing trailing cells.
func ReadCSVTable(path, remedy string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, &MissingInputError{Path: path, Remedy: remedy}
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("read %s: file has no header row", path)
	}
	return all[0], all[1:], nil
}

// stateWeekHeader is the cleaned-table layout: identifiers first, then the
// sixteen metric columns in canonical order.
func stateWeekHeader() []string {
	h := []string{domain.ColGeo, domain.ColWeekEnding}
	for _, c := range domain.MetricColumns {
		h = append(h, c.Name)
	}
	return h
}

// WriteStateWeek writes the aggregated state-week table. Missing values are
// written as empty cells.
func WriteStateWeek(path string, records []domain.StateWeekRecord) error {
	rows := make([][]string, 0, len(records))
	for i := range records {
		row := []string{records[i].State, records[i].WeekEnding.Format(dateLayout)}
		for _, c := range domain.MetricColumns {
			row = append(row, formatCell(*c.Field(&records[i].Metrics)))
		}
		rows = append(rows, row)
	}
	return writeCSV(path, stateWeekHeader(), rows)
}

// ReadStateWeek loads an aggregated state-week table written by
// WriteStateWeek.
func ReadStateWeek(path, remedy string) ([]domain.StateWeekRecord, error) {
	header, rows, err := ReadCSVTable(path, remedy)
	if err != nil {
		return nil, err
	}
	idx, err := indexColumns(path, header, stateWeekHeader())
	if err != nil {
		return nil, err
	}

	out := make([]domain.StateWeekRecord, 0, len(rows))
	for n, row := range rows {
		week, err := time.Parse(dateLayout, cellAt(row, idx[domain.ColWeekEnding]))
		if err != nil {
			return nil, fmt.Errorf("parse %s row %d: week ending date: %w", path, n+2, err)
		}
		rec := domain.StateWeekRecord{
			State:      cellAt(row, idx[domain.ColGeo]),
			WeekEnding: week.UTC(),
		}
		for _, c := range domain.MetricColumns {
			v, err := parseCell(cellAt(row, idx[c.Name]))
			if err != nil {
				return nil, fmt.Errorf("parse %s row %d: column %q: %w", path, n+2, c.Name, err)
			}
			*c.Field(&rec.Metrics) = v
		}
		out = append(out, rec)
	}
	return out, nil
}

// diseaseLagColumns pairs each disease lag column header with its accessor on
// the model-ready record, in table order.
var diseaseLagColumns = []struct {
	name  string
	field func(*domain.ModelReadyRecord) **float64
}{
	{domain.ColCovidTotal + domain.LastWeekSuffix, func(r *domain.ModelReadyRecord) **float64 { return &r.CovidTotalLastWeek }},
	{domain.ColFluTotal + domain.LastWeekSuffix, func(r *domain.ModelReadyRecord) **float64 { return &r.FluTotalLastWeek }},
	{domain.ColRSVTotal + domain.LastWeekSuffix, func(r *domain.ModelReadyRecord) **float64 { return &r.RSVTotalLastWeek }},
	{domain.ColCovidICU + domain.LastWeekSuffix, func(r *domain.ModelReadyRecord) **float64 { return &r.CovidICULastWeek }},
	{domain.ColFluICU + domain.LastWeekSuffix, func(r *domain.ModelReadyRecord) **float64 { return &r.FluICULastWeek }},
	{domain.ColRSVICU + domain.LastWeekSuffix, func(r *domain.ModelReadyRecord) **float64 { return &r.RSVICULastWeek }},
}

func modelReadyHeader() []string {
	h := stateWeekHeader()
	h = append(h, domain.ColICULastWeek, domain.ColInpatientLastWeek)
	for _, c := range diseaseLagColumns {
		h = append(h, c.name)
	}
	h = append(h, domain.ColICU4wAvg, domain.ColInpatient4wAvg)
	return h
}

// WriteModelReady writes the feature table: the state-week columns followed
// by the lag and rolling features.
func WriteModelReady(path string, records []domain.ModelReadyRecord) error {
	rows := make([][]string, 0, len(records))
	for i := range records {
		rec := &records[i]
		row := []string{rec.State, rec.WeekEnding.Format(dateLayout)}
		for _, c := range domain.MetricColumns {
			row = append(row, formatCell(*c.Field(&rec.Metrics)))
		}
		row = append(row, formatFloat(rec.ICUPctLastWeek), formatFloat(rec.InpatientPctLastWeek))
		for _, c := range diseaseLagColumns {
			row = append(row, formatCell(*c.field(rec)))
		}
		row = append(row, formatFloat(rec.ICUPct4wAvg), formatFloat(rec.InpatientPct4wAvg))
		rows = append(rows, row)
	}
	return writeCSV(path, modelReadyHeader(), rows)
}

// ReadModelReady loads a feature table written by WriteModelReady.
func ReadModelReady(path, remedy string) ([]domain.ModelReadyRecord, error) {
	header, rows, err := ReadCSVTable(path, remedy)
	if err != nil {
		return nil, err
	}
	idx, err := indexColumns(path, header, modelReadyHeader())
	if err != nil {
		return nil, err
	}

	out := make([]domain.ModelReadyRecord, 0, len(rows))
	for n, row := range rows {
		week, err := time.Parse(dateLayout, cellAt(row, idx[domain.ColWeekEnding]))
		if err != nil {
			return nil, fmt.Errorf("parse %s row %d: week ending date: %w", path, n+2, err)
		}
		rec := domain.ModelReadyRecord{
			StateWeekRecord: domain.StateWeekRecord{
				State:      cellAt(row, idx[domain.ColGeo]),
				WeekEnding: week.UTC(),
			},
		}
		bad := func(col string, err error) error {
			return fmt.Errorf("parse %s row %d: column %q: %w", path, n+2, col, err)
		}
		for _, c := range domain.MetricColumns {
			v, err := parseCell(cellAt(row, idx[c.Name]))
			if err != nil {
				return nil, bad(c.Name, err)
			}
			*c.Field(&rec.Metrics) = v
		}

		if rec.ICUPctLastWeek, err = parseFloat(cellAt(row, idx[domain.ColICULastWeek])); err != nil {
			return nil, bad(domain.ColICULastWeek, err)
		}
		if rec.InpatientPctLastWeek, err = parseFloat(cellAt(row, idx[domain.ColInpatientLastWeek])); err != nil {
			return nil, bad(domain.ColInpatientLastWeek, err)
		}
		for _, c := range diseaseLagColumns {
			v, err := parseCell(cellAt(row, idx[c.name]))
			if err != nil {
				return nil, bad(c.name, err)
			}
			*c.field(&rec) = v
		}
		if rec.ICUPct4wAvg, err = parseFloat(cellAt(row, idx[domain.ColICU4wAvg])); err != nil {
			return nil, bad(domain.ColICU4wAvg, err)
		}
		if rec.InpatientPct4wAvg, err = parseFloat(cellAt(row, idx[domain.ColInpatient4wAvg])); err != nil {
			return nil, bad(domain.ColInpatient4wAvg, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

var forecastHeader = []string{
	"state",
	"current_week",
	"forecast_week",
	"icu_pct_next_week_pred",
	"inpatient_pct_next_week_pred",
	"critical_risk_proba",
	"critical_risk_next_week_pred",
	"disease_burden_next_week_pred",
	"suggested_neighbor_state",
	"recommendation",
	"run_id",
	"generated_at",
}

// WriteForecasts writes a forecast record set, preserving input order.
func WriteForecasts(path string, records []domain.ForecastRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.State,
			r.CurrentWeek.Format(dateLayout),
			r.ForecastWeek.Format(dateLayout),
			formatFloat(r.ICUPctPred),
			formatFloat(r.InpatientPctPred),
			formatFloat(r.CriticalProba),
			strconv.Itoa(r.CriticalPred),
			formatFloat(r.DiseaseBurdenPred),
			r.SuggestedNeighbor,
			r.Recommendation,
			r.RunID,
			r.GeneratedAt.UTC().Format(time.RFC3339),
		})
	}
	return writeCSV(path, forecastHeader, rows)
}

// ReadForecasts loads a forecast table written by WriteForecasts.
func ReadForecasts(path, remedy string) ([]domain.ForecastRecord, error) {
	header, rows, err := ReadCSVTable(path, remedy)
	if err != nil {
		return nil, err
	}
	idx, err := indexColumns(path, header, forecastHeader)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ForecastRecord, 0, len(rows))
	for n, row := range rows {
		get := func(col string) string { return cellAt(row, idx[col]) }
		bad := func(col string, err error) error {
			return fmt.Errorf("parse %s row %d: column %q: %w", path, n+2, col, err)
		}

		var rec domain.ForecastRecord
		rec.State = get("state")
		if rec.CurrentWeek, err = time.Parse(dateLayout, get("current_week")); err != nil {
			return nil, bad("current_week", err)
		}
		if rec.ForecastWeek, err = time.Parse(dateLayout, get("forecast_week")); err != nil {
			return nil, bad("forecast_week", err)
		}
		if rec.ICUPctPred, err = parseFloat(get("icu_pct_next_week_pred")); err != nil {
			return nil, bad("icu_pct_next_week_pred", err)
		}
		if rec.InpatientPctPred, err = parseFloat(get("inpatient_pct_next_week_pred")); err != nil {
			return nil, bad("inpatient_pct_next_week_pred", err)
		}
		if rec.CriticalProba, err = parseFloat(get("critical_risk_proba")); err != nil {
			return nil, bad("critical_risk_proba", err)
		}
		if rec.CriticalPred, err = strconv.Atoi(get("critical_risk_next_week_pred")); err != nil {
			return nil, bad("critical_risk_next_week_pred", err)
		}
		if rec.DiseaseBurdenPred, err = parseFloat(get("disease_burden_next_week_pred")); err != nil {
			return nil, bad("disease_burden_next_week_pred", err)
		}
		rec.SuggestedNeighbor = get("suggested_neighbor_state")
		rec.Recommendation = get("recommendation")
		rec.RunID = get("run_id")
		if ts := get("generated_at"); ts != "" {
			if rec.GeneratedAt, err = time.Parse(time.RFC3339, ts); err != nil {
				return nil, bad("generated_at", err)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// CSVForecastWriter is the default forecast sink.
type CSVForecastWriter struct {
	Path string
}

func (w *CSVForecastWriter) WriteForecasts(_ context.Context, records []domain.ForecastRecord) error {
	return WriteForecasts(w.Path, records)
}

func writeCSV(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir for %s: %w", path, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// indexColumns maps required column names to their positions in the header.
func indexColumns(path string, header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, c := range required {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("parse %s: missing column %q", path, c)
		}
	}
	return idx, nil
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func formatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseCell(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
