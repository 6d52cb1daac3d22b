package domain

import "fmt"

// USStates is the canonical 50-state code set used to filter the export.
// Territories and national rollups are excluded unless explicitly kept.
var USStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "IA", "ID", "IL", "IN", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WI", "WV", "WY",
}

var usStateSet = func() map[string]bool {
	m := make(map[string]bool, len(USStates))
	for _, s := range USStates {
		m[s] = true
	}
	return m
}()

// IsUSState reports whether code is one of the 50 state abbreviations.
func IsUSState(code string) bool {
	return usStateSet[code]
}

// StateNames maps state codes to display names for presentation surfaces.
var StateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "IA": "Iowa", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MO": "Missouri", "MS": "Mississippi",
	"MT": "Montana", "NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey",
	"NM": "New Mexico", "NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont",
	"VA": "Virginia", "WA": "Washington", "WI": "Wisconsin", "WV": "West Virginia", "WY": "Wyoming",
}

// StateLabel renders a code as "NY — New York". Unknown codes render as the
// code alone so territory rows never break a page.
func StateLabel(code string) string {
	name, ok := StateNames[code]
	if !ok {
		return code
	}
	return fmt.Sprintf("%s — %s", code, name)
}
