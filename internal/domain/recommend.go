package domain

// Recommendation tier thresholds. Fixed operational constants layered on top
// of model outputs, not learned parameters.
const (
	criticalOccupancyPct = 85.0
	moderateICUPct       = 80.0
	moderateInpatientPct = 85.0
	moderateProba        = 0.12
)

// RecommendAction produces the operational recommendation text for one
// state's forecast. Decision-support language based on forecast signals, not
// clinical guidance.
//
// HIGH when the classifier flags critical risk or both occupancy forecasts
// meet the 85% threshold; MODERATE when ICU >= 80%, inpatient >= 85%, or the
// risk probability >= 0.12; LOW otherwise. HIGH and MODERATE mention the
// suggested neighbor when one exists.
func RecommendAction(rec ForecastRecord) string {
	icu := rec.ICUPctPred
	inp := rec.InpatientPctPred
	neighbor := rec.SuggestedNeighbor

	if rec.CriticalPred == 1 || (icu >= criticalOccupancyPct && inp >= criticalOccupancyPct) {
		msg := "HIGH RISK: Increase surge monitoring, review staffing/bed capacity plans, " +
			"and coordinate regionally for potential load balancing."
		if neighbor != "" {
			msg += " Potential lower-risk neighbor: " + neighbor + "."
		}
		return msg
	}

	if icu >= moderateICUPct || inp >= moderateInpatientPct || rec.CriticalProba >= moderateProba {
		msg := "MODERATE: Monitor closely and prepare contingency plans."
		if neighbor != "" {
			msg += " Nearby alternative option: " + neighbor + "."
		}
		return msg
	}

	return "LOW: Normal monitoring."
}
