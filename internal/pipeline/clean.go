package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

// Strategy selects how missing values are handled after aggregation.
type Strategy string

const (
	// StrategyDrop removes any aggregated row that still has a missing value.
	StrategyDrop Strategy = "drop"
	// StrategyFFill forward-fills within each state's chronological sequence,
	// then drops rows that are still missing anything.
	StrategyFFill Strategy = "ffill"
	// StrategyStateMedian fills each missing value with that state's own
	// median for the column, then drops rows still missing either occupancy
	// percentage. The default.
	StrategyStateMedian Strategy = "state_median"
)

// ParseStrategy validates a strategy string from config or a CLI flag.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyDrop, StrategyFFill, StrategyStateMedian:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w (got %q)", ErrUnknownStrategy, s)
	}
}

// CleanOptions controls the raw-to-state-week transformation.
type CleanOptions struct {
	// KeepTerritories retains geographic codes outside the 50-state set.
	KeepTerritories bool
	// Strategy is the missing-value strategy applied after aggregation.
	Strategy Strategy
	// SkipPercentNormalization disables the 0-1 vs 0-100 encoding heuristic.
	SkipPercentNormalization bool
}

// dateLayouts accepted for the week-ending column. Export vintages vary
// between ISO dates and US-style slashed dates.
var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006", time.RFC3339}

// ParseRawTable converts a raw CSV table (header plus data rows) into
// RawRecords. Header cells are whitespace-stripped before matching; a
// MissingColumnsError names every absent required column. Rows with an
// unparseable week-ending date or an empty geographic code are discarded.
// Non-numeric metric cells become missing values rather than errors.
func ParseRawTable(header []string, rows [][]string) ([]domain.RawRecord, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	cell := func(row []string, name string) string {
		i := idx[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]domain.RawRecord, 0, len(rows))
	for _, row := range rows {
		week, ok := parseDate(cell(row, domain.ColWeekEnding))
		state := cell(row, domain.ColGeo)
		if !ok || state == "" {
			continue
		}

		rec := domain.RawRecord{WeekEnding: week, State: state}
		for _, c := range columns {
			*c.Field(&rec.Metrics) = parseNumeric(cell(row, c.Name))
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseNumeric(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// NormalizePercent rescales a percent column stored as a 0-1 proportion to
// the 0-100 scale, in place. The encoding is inferred from the data: if the
// maximum non-missing value is <= 1.5 every value is multiplied by 100,
// otherwise the column passes through unchanged. An all-missing column is
// returned unchanged. The 1.5 threshold is deliberate behavioral parity with
// the upstream heuristic; see the package doc in domain.
func NormalizePercent(values []*float64) {
	max, seen := 0.0, false
	for _, v := range values {
		if v == nil {
			continue
		}
		if !seen || *v > max {
			max, seen = *v, true
		}
	}
	if !seen || max > 1.5 {
		return
	}
	for _, v := range values {
		if v != nil {
			*v *= 100.0
		}
	}
}

// normalizePercentColumns applies NormalizePercent to every percent-valued
// column across the full record set.
func normalizePercentColumns(records []domain.RawRecord) {
	for _, c := range columns {
		if !c.percent {
			continue
		}
		vals := make([]*float64, len(records))
		for i := range records {
			vals[i] = *c.Field(&records[i].Metrics)
		}
		NormalizePercent(vals)
	}
}

// AggregateStateWeek restricts raw records to the canonical state set (unless
// territories are kept), normalizes percent encodings, and collapses rows to
// exactly one record per (state, week): count columns by sum, percentage
// columns by mean of the non-missing contributions. The chosen missing-value
// strategy then runs over the aggregated table. Output is sorted by state,
// then week. Percent normalization rewrites metric values through their
// pointers, so the input slice is consumed, not shared.
func AggregateStateWeek(records []domain.RawRecord, opts CleanOptions) ([]domain.StateWeekRecord, error) {
	if _, err := ParseStrategy(string(opts.Strategy)); err != nil {
		return nil, err
	}

	filtered := records
	if !opts.KeepTerritories {
		filtered = filtered[:0:0]
		for _, r := range records {
			if domain.IsUSState(r.State) {
				filtered = append(filtered, r)
			}
		}
	}

	if !opts.SkipPercentNormalization {
		normalizePercentColumns(filtered)
	}

	type groupKey struct {
		state string
		week  time.Time
	}
	groups := make(map[groupKey][]domain.RawRecord)
	for _, r := range filtered {
		k := groupKey{state: r.State, week: r.WeekEnding}
		groups[k] = append(groups[k], r)
	}

	out := make([]domain.StateWeekRecord, 0, len(groups))
	for k, members := range groups {
		rec := domain.StateWeekRecord{State: k.state, WeekEnding: k.week}
		for _, c := range columns {
			*c.Field(&rec.Metrics) = aggregate(c, members)
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].WeekEnding.Before(out[j].WeekEnding)
	})

	return applyStrategy(out, opts.Strategy), nil
}

// aggregate combines one column across the raw rows of a group. Sums skip
// missing values and yield 0 for an all-missing group; means yield missing.
func aggregate(c column, members []domain.RawRecord) *float64 {
	sum, n := 0.0, 0
	for i := range members {
		if v := *c.Field(&members[i].Metrics); v != nil {
			sum += *v
			n++
		}
	}
	switch c.agg {
	case aggMean:
		if n == 0 {
			return nil
		}
		v := sum / float64(n)
		return &v
	default:
		v := sum
		return &v
	}
}

// applyStrategy resolves remaining missing values. Records must already be
// sorted by state then week; all strategies preserve that order.
func applyStrategy(records []domain.StateWeekRecord, strategy Strategy) []domain.StateWeekRecord {
	switch strategy {
	case StrategyDrop:
		return dropIncomplete(records)
	case StrategyFFill:
		forwardFill(records)
		return dropIncomplete(records)
	default: // StrategyStateMedian, validated upstream
		fillStateMedian(records)
		return dropMissingTargets(records)
	}
}

func dropIncomplete(records []domain.StateWeekRecord) []domain.StateWeekRecord {
	out := records[:0:0]
	for i := range records {
		complete := true
		for _, c := range columns {
			if *c.Field(&records[i].Metrics) == nil {
				complete = false
				break
			}
		}
		if complete {
			out = append(out, records[i])
		}
	}
	return out
}

// forwardFill carries the last observed value forward within each state's
// chronological sequence. Leading missing values stay missing.
func forwardFill(records []domain.StateWeekRecord) {
	for _, c := range columns {
		var last *float64
		prevState := ""
		for i := range records {
			if records[i].State != prevState {
				prevState = records[i].State
				last = nil
			}
			p := c.Field(&records[i].Metrics)
			if *p != nil {
				last = *p
			} else if last != nil {
				v := *last
				*p = &v
			}
		}
	}
}

// fillStateMedian replaces each missing value with the state's own median for
// that column, computed over all that state's weeks. Medians never cross
// state boundaries; a state with no observations at all for a column keeps
// the value missing.
func fillStateMedian(records []domain.StateWeekRecord) {
	for _, c := range columns {
		byState := make(map[string][]float64)
		for i := range records {
			if v := *c.Field(&records[i].Metrics); v != nil {
				byState[records[i].State] = append(byState[records[i].State], *v)
			}
		}

		medians := make(map[string]float64, len(byState))
		for state, vals := range byState {
			medians[state] = median(vals)
		}

		for i := range records {
			p := c.Field(&records[i].Metrics)
			if *p != nil {
				continue
			}
			if m, ok := medians[records[i].State]; ok {
				v := m
				*p = &v
			}
		}
	}
}

// dropMissingTargets removes rows still missing either occupancy percentage,
// the two model target columns.
func dropMissingTargets(records []domain.StateWeekRecord) []domain.StateWeekRecord {
	out := records[:0:0]
	for i := range records {
		if records[i].PctICUOccupied != nil && records[i].PctInpatientOccupied != nil {
			out = append(out, records[i])
		}
	}
	return out
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
