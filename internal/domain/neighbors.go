package domain

import "sort"

// Neighbors maps each state to its land-border neighbors. Alaska and Hawaii
// have no land neighbors and map to empty lists.
var Neighbors = map[string][]string{
	"AL": {"FL", "GA", "MS", "TN"},
	"AK": {},
	"AZ": {"CA", "CO", "NM", "NV", "UT"},
	"AR": {"LA", "MO", "MS", "OK", "TN", "TX"},
	"CA": {"AZ", "NV", "OR"},
	"CO": {"AZ", "KS", "NE", "NM", "OK", "UT", "WY"},
	"CT": {"MA", "NY", "RI"},
	"DE": {"MD", "NJ", "PA"},
	"FL": {"AL", "GA"},
	"GA": {"AL", "FL", "NC", "SC", "TN"},
	"HI": {},
	"ID": {"MT", "NV", "OR", "UT", "WA", "WY"},
	"IL": {"IN", "IA", "KY", "MO", "WI", "MI"},
	"IN": {"IL", "KY", "MI", "OH"},
	"IA": {"IL", "MN", "MO", "NE", "SD", "WI"},
	"KS": {"CO", "MO", "NE", "OK"},
	"KY": {"IL", "IN", "MO", "OH", "TN", "VA", "WV"},
	"LA": {"AR", "MS", "TX"},
	"ME": {"NH"},
	"MD": {"DE", "PA", "VA", "WV"},
	"MA": {"CT", "NH", "NY", "RI", "VT"},
	"MI": {"IN", "OH", "WI", "IL"},
	"MN": {"IA", "ND", "SD", "WI"},
	"MS": {"AL", "AR", "LA", "TN"},
	"MO": {"AR", "IA", "IL", "KS", "KY", "NE", "OK", "TN"},
	"MT": {"ID", "ND", "SD", "WY"},
	"NE": {"CO", "IA", "KS", "MO", "SD", "WY"},
	"NV": {"AZ", "CA", "ID", "OR", "UT"},
	"NH": {"MA", "ME", "VT"},
	"NJ": {"DE", "NY", "PA"},
	"NM": {"AZ", "CO", "OK", "TX", "UT"},
	"NY": {"CT", "MA", "NJ", "PA", "VT"},
	"NC": {"GA", "SC", "TN", "VA"},
	"ND": {"MN", "MT", "SD"},
	"OH": {"IN", "KY", "MI", "PA", "WV"},
	"OK": {"AR", "CO", "KS", "MO", "NM", "TX"},
	"OR": {"CA", "ID", "NV", "WA"},
	"PA": {"DE", "MD", "NJ", "NY", "OH", "WV"},
	"RI": {"CT", "MA"},
	"SC": {"GA", "NC"},
	"SD": {"IA", "MN", "MT", "ND", "NE", "WY"},
	"TN": {"AL", "AR", "GA", "KY", "MO", "MS", "NC", "VA"},
	"TX": {"AR", "LA", "NM", "OK"},
	"UT": {"AZ", "CO", "ID", "NM", "NV", "WY"},
	"VT": {"MA", "NH", "NY"},
	"VA": {"KY", "MD", "NC", "TN", "WV"},
	"WA": {"ID", "OR"},
	"WV": {"KY", "MD", "OH", "PA", "VA"},
	"WI": {"IA", "IL", "MI", "MN"},
	"WY": {"CO", "ID", "MT", "NE", "SD", "UT"},
}

// SuggestNeighbor picks the lowest-risk land neighbor of state among those
// present in lookup, ordering candidates by (critical risk probability,
// predicted ICU %, predicted inpatient %) with earlier elements taking
// priority. Returns "" when the state has no neighbors in the table, no
// neighbors at all (AK, HI), or is absent from the adjacency map.
func SuggestNeighbor(state string, lookup map[string]ForecastRecord) string {
	nbs, ok := Neighbors[state]
	if !ok {
		return ""
	}

	var candidates []ForecastRecord
	for _, nb := range nbs {
		if rec, present := lookup[nb]; present {
			candidates = append(candidates, rec)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.CriticalProba != b.CriticalProba {
			return a.CriticalProba < b.CriticalProba
		}
		if a.ICUPctPred != b.ICUPctPred {
			return a.ICUPctPred < b.ICUPctPred
		}
		return a.InpatientPctPred < b.InpatientPctPred
	})
	return candidates[0].State
}
