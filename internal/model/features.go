package model

import (
	"strings"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
)

// FeatureCols is the model input feature set, in the exact order the
// artifacts were trained with. The ordered list is persisted alongside the
// models so inference never silently reorders inputs.
var FeatureCols = []string{
	domain.ColPctICUOccupied,
	domain.ColPctInpatientOccupied,

	domain.ColICULastWeek,
	domain.ColInpatientLastWeek,
	domain.ColICU4wAvg,
	domain.ColInpatient4wAvg,

	domain.ColCovidTotal,
	domain.ColFluTotal,
	domain.ColRSVTotal,
	domain.ColCovidICU,
	domain.ColFluICU,
	domain.ColRSVICU,

	domain.ColHospReportingICU,
	domain.ColHospReportingInpatient,
	domain.ColPctHospReportingICU,
	domain.ColPctHospReportingInpatient,
}

// MissingFeaturesError reports every feature a trained model expects that
// this build cannot resolve from a model-ready record.
type MissingFeaturesError struct {
	Features []string
}

func (e *MissingFeaturesError) Error() string {
	return "missing required feature columns in data: " + strings.Join(e.Features, ", ")
}

// featureGetter resolves a feature column name to an accessor. The second
// return is false for names this build does not know.
func featureGetter(name string) (func(*domain.ModelReadyRecord) *float64, bool) {
	switch name {
	case domain.ColPctICUOccupied:
		return func(r *domain.ModelReadyRecord) *float64 { return r.PctICUOccupied }, true
	case domain.ColPctInpatientOccupied:
		return func(r *domain.ModelReadyRecord) *float64 { return r.PctInpatientOccupied }, true
	case domain.ColICULastWeek:
		return func(r *domain.ModelReadyRecord) *float64 { return &r.ICUPctLastWeek }, true
	case domain.ColInpatientLastWeek:
		return func(r *domain.ModelReadyRecord) *float64 { return &r.InpatientPctLastWeek }, true
	case domain.ColICU4wAvg:
		return func(r *domain.ModelReadyRecord) *float64 { return &r.ICUPct4wAvg }, true
	case domain.ColInpatient4wAvg:
		return func(r *domain.ModelReadyRecord) *float64 { return &r.InpatientPct4wAvg }, true
	case domain.ColCovidTotal:
		return func(r *domain.ModelReadyRecord) *float64 { return r.CovidTotal }, true
	case domain.ColFluTotal:
		return func(r *domain.ModelReadyRecord) *float64 { return r.FluTotal }, true
	case domain.ColRSVTotal:
		return func(r *domain.ModelReadyRecord) *float64 { return r.RSVTotal }, true
	case domain.ColCovidICU:
		return func(r *domain.ModelReadyRecord) *float64 { return r.CovidICU }, true
	case domain.ColFluICU:
		return func(r *domain.ModelReadyRecord) *float64 { return r.FluICU }, true
	case domain.ColRSVICU:
		return func(r *domain.ModelReadyRecord) *float64 { return r.RSVICU }, true
	case domain.ColHospReportingICU:
		return func(r *domain.ModelReadyRecord) *float64 { return r.HospReportingICU }, true
	case domain.ColHospReportingInpatient:
		return func(r *domain.ModelReadyRecord) *float64 { return r.HospReportingInpatient }, true
	case domain.ColPctHospReportingICU:
		return func(r *domain.ModelReadyRecord) *float64 { return r.PctHospReportingICU }, true
	case domain.ColPctHospReportingInpatient:
		return func(r *domain.ModelReadyRecord) *float64 { return r.PctHospReportingInpatient }, true
	default:
		return nil, false
	}
}

// ValidateFeatures checks that every named feature is resolvable, returning
// a MissingFeaturesError listing all unknown names at once.
func ValidateFeatures(cols []string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := featureGetter(c); !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingFeaturesError{Features: missing}
	}
	return nil
}

// FeatureVector extracts the feature values of a record in column order.
// The second return is false when any value is missing (nullable disease or
// reporting columns that survived imputation unresolved); such rows cannot
// feed a model and are skipped by callers. Feature names must already have
// passed ValidateFeatures.
func FeatureVector(rec *domain.ModelReadyRecord, cols []string) ([]float64, bool) {
	vec := make([]float64, len(cols))
	for i, c := range cols {
		get, ok := featureGetter(c)
		if !ok {
			return nil, false
		}
		v := get(rec)
		if v == nil {
			return nil, false
		}
		vec[i] = *v
	}
	return vec, true
}
