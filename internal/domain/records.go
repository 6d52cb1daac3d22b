package domain

import "time"

// CDC export column headers. Header matching is exact after whitespace
// stripping; these strings are the contract with the upstream export.
const (
	ColWeekEnding = "Week Ending Date"
	ColGeo        = "Geographic aggregation"

	ColInpatientBeds         = "Number of Inpatient Beds"
	ColInpatientBedsOccupied = "Number of Inpatient Beds Occupied"
	ColICUBeds               = "Number of ICU Beds"
	ColICUBedsOccupied       = "Number of ICU Beds Occupied"

	ColPctInpatientOccupied = "Percent Inpatient Beds Occupied"
	ColPctICUOccupied       = "Percent ICU Beds Occupied"

	ColCovidTotal = "Total Patients Hospitalized with COVID-19"
	ColFluTotal   = "Total Patients Hospitalized with Influenza"
	ColRSVTotal   = "Total Patients Hospitalized with RSV"
	ColCovidICU   = "Total ICU Patients Hospitalized with COVID-19"
	ColFluICU     = "Total ICU Patients Hospitalized with Influenza"
	ColRSVICU     = "Total ICU Patients Hospitalized with RSV"

	ColHospReportingInpatient    = "Number Hospitals Reporting Number of Inpatient Beds"
	ColHospReportingICU          = "Number Hospitals Reporting Number of ICU Beds"
	ColPctHospReportingInpatient = "Percent Hospitals Reporting Number of Inpatient Beds"
	ColPctHospReportingICU       = "Percent Hospitals Reporting Number of ICU Beds"
)

// Derived feature column names used in the model-ready table and artifacts.
const (
	ColICULastWeek       = "icu_pct_last_week"
	ColInpatientLastWeek = "inpatient_pct_last_week"
	ColICU4wAvg          = "icu_pct_4w_avg"
	ColInpatient4wAvg    = "inpatient_pct_4w_avg"
)

// LastWeekSuffix is appended to a source column name to form its lag-1
// feature column, e.g. "Total Patients Hospitalized with RSV_last_week".
const LastWeekSuffix = "_last_week"

// Metrics holds the sixteen numeric columns tracked through cleaning and
// aggregation. Values are pointers until imputation resolves missingness:
// nil means the source value was absent or non-numeric.
type Metrics struct {
	InpatientBeds         *float64
	InpatientBedsOccupied *float64
	ICUBeds               *float64
	ICUBedsOccupied       *float64

	PctInpatientOccupied *float64
	PctICUOccupied       *float64

	CovidTotal *float64
	FluTotal   *float64
	RSVTotal   *float64
	CovidICU   *float64
	FluICU     *float64
	RSVICU     *float64

	HospReportingInpatient    *float64
	HospReportingICU          *float64
	PctHospReportingInpatient *float64
	PctHospReportingICU       *float64
}

// RawRecord is one parsed row of the CDC export: a reporting unit and week
// plus its metric values. There is no uniqueness guarantee; several raw rows
// may share a (state, week) pair until aggregation collapses them.
type RawRecord struct {
	WeekEnding time.Time
	State      string
	Metrics
}

// StateWeekRecord is one aggregated observation per (state, week). Exactly
// one record exists per pair after aggregation; count columns are sums over
// the contributing raw rows and percentage columns are means.
type StateWeekRecord struct {
	State      string
	WeekEnding time.Time
	Metrics
}

// ModelReadyRecord extends a StateWeekRecord with lag and rolling features.
// It is only materialized for weeks with at least four prior consecutive
// observations for the state, so the lag and rolling fields are always
// populated. Disease lag features stay nullable: their source columns can be
// missing under the state_median strategy.
type ModelReadyRecord struct {
	StateWeekRecord

	ICUPctLastWeek       float64
	InpatientPctLastWeek float64
	ICUPct4wAvg          float64
	InpatientPct4wAvg    float64

	CovidTotalLastWeek *float64
	FluTotalLastWeek   *float64
	RSVTotalLastWeek   *float64
	CovidICULastWeek   *float64
	FluICULastWeek     *float64
	RSVICULastWeek     *float64
}

// TrainingRow is a ModelReadyRecord joined with its forward-looking targets.
// Rows for the last observed week of a state have no targets and are never
// constructed.
type TrainingRow struct {
	ModelReadyRecord

	ICUPctNextWeek        float64
	InpatientPctNextWeek  float64
	DiseaseBurdenNextWeek float64
	CriticalNextWeek      int
}

// ForecastRecord is one state's next-week forecast. The full set is
// regenerated wholesale on every inference run.
type ForecastRecord struct {
	State        string    `json:"state"`
	CurrentWeek  time.Time `json:"current_week"`
	ForecastWeek time.Time `json:"forecast_week"`

	ICUPctPred        float64 `json:"icu_pct_next_week_pred"`
	InpatientPctPred  float64 `json:"inpatient_pct_next_week_pred"`
	CriticalProba     float64 `json:"critical_risk_proba"`
	CriticalPred      int     `json:"critical_risk_next_week_pred"`
	DiseaseBurdenPred float64 `json:"disease_burden_next_week_pred"`

	SuggestedNeighbor string `json:"suggested_neighbor_state,omitempty"`
	Recommendation    string `json:"recommendation"`

	RunID       string    `json:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}
