// Package domain models weekly CDC hospital respiratory reporting data.
//
// # Data Source
//
// Raw rows come from the CDC "Weekly Hospital Respiratory Data" export, one
// row per reporting unit per week. The columns this pipeline consumes are the
// week-ending date, the geographic aggregation code (a two-letter state code
// for state-level rows), inpatient/ICU bed capacity and occupancy counts,
// occupancy percentages, respiratory disease hospitalization totals
// (COVID-19, influenza, RSV, overall and ICU-only), and hospital reporting
// completeness counts.
//
// # CDC Data Conventions
//
// Week-ending dates:
//
//	ISO dates ("2024-11-02"), always a Saturday in recent exports. Rows with
//	an unparseable date or an empty geographic code are discarded before
//	aggregation.
//
// Percentage encoding (inconsistent across export vintages):
//
//	Some exports store percentages on a 0-100 scale, others as 0-1
//	proportions. The encoding is inferred from the data: if the maximum
//	non-missing value of a percent column is <= 1.5 the column is treated as
//	a proportion and multiplied by 100. The threshold of 1.5 tolerates
//	slightly-over-one proportions while never firing on a genuine percent
//	column, where typical occupancy sits between 40 and 100. A column whose
//	values are all missing passes through unchanged.
//
// Geographic aggregation:
//
//	State-level codes are the 50 USPS abbreviations in [USStates]. The export
//	also carries territory codes (PR, VI, GU, ...) and national rollups
//	("USA"); those are filtered out unless territories are explicitly kept.
//
// # State adjacency
//
// [Neighbors] maps each state to its land-border neighbors. Alaska and Hawaii
// share no land border with any state and map to empty lists; every lookup
// path treats an empty neighbor list as "no suggestion" rather than an error.
//
// # Critical stress
//
// A state-week is forecast as critically stressed when next week's predicted
// ICU or inpatient occupancy meets or exceeds 85%. The recommendation tiers
// in [RecommendAction] layer fixed operational thresholds on top of the model
// outputs; they are decision-support language, not clinical guidance.
package domain
