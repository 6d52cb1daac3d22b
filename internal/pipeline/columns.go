package pipeline

import "github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"

// aggKind selects how a column is combined when raw rows collapse into one
// state-week row.
type aggKind int

const (
	aggSum aggKind = iota
	aggMean
)

// column is a canonical metric column annotated with its aggregation rule and
// whether it is percent-valued (subject to encoding normalization). The
// percent-valued columns are exactly the mean-aggregated ones.
type column struct {
	domain.MetricColumn
	agg     aggKind
	percent bool
}

var meanColumns = map[string]bool{
	domain.ColPctInpatientOccupied:      true,
	domain.ColPctICUOccupied:            true,
	domain.ColPctHospReportingInpatient: true,
	domain.ColPctHospReportingICU:       true,
}

var columns = func() []column {
	out := make([]column, len(domain.MetricColumns))
	for i, mc := range domain.MetricColumns {
		out[i] = column{MetricColumn: mc, agg: aggSum}
		if meanColumns[mc.Name] {
			out[i].agg = aggMean
			out[i].percent = true
		}
	}
	return out
}()

// RequiredColumns is the full header set a raw export must carry.
var RequiredColumns = func() []string {
	cols := []string{domain.ColWeekEnding, domain.ColGeo}
	for _, c := range columns {
		cols = append(cols, c.Name)
	}
	return cols
}()
