package domain

// MetricColumn pairs a numeric CDC column header with an accessor into the
// Metrics struct, so the cleaning pipeline and the CSV codecs can iterate
// columns without reflection.
type MetricColumn struct {
	Name string
	// Field returns the address of the column's pointer slot, allowing both
	// reads and in-place writes.
	Field func(*Metrics) **float64
}

// MetricColumns lists the sixteen numeric columns in canonical export order.
var MetricColumns = []MetricColumn{
	{ColInpatientBeds, func(m *Metrics) **float64 { return &m.InpatientBeds }},
	{ColInpatientBedsOccupied, func(m *Metrics) **float64 { return &m.InpatientBedsOccupied }},
	{ColICUBeds, func(m *Metrics) **float64 { return &m.ICUBeds }},
	{ColICUBedsOccupied, func(m *Metrics) **float64 { return &m.ICUBedsOccupied }},

	{ColPctInpatientOccupied, func(m *Metrics) **float64 { return &m.PctInpatientOccupied }},
	{ColPctICUOccupied, func(m *Metrics) **float64 { return &m.PctICUOccupied }},

	{ColCovidTotal, func(m *Metrics) **float64 { return &m.CovidTotal }},
	{ColFluTotal, func(m *Metrics) **float64 { return &m.FluTotal }},
	{ColRSVTotal, func(m *Metrics) **float64 { return &m.RSVTotal }},
	{ColCovidICU, func(m *Metrics) **float64 { return &m.CovidICU }},
	{ColFluICU, func(m *Metrics) **float64 { return &m.FluICU }},
	{ColRSVICU, func(m *Metrics) **float64 { return &m.RSVICU }},

	{ColHospReportingInpatient, func(m *Metrics) **float64 { return &m.HospReportingInpatient }},
	{ColHospReportingICU, func(m *Metrics) **float64 { return &m.HospReportingICU }},
	{ColPctHospReportingInpatient, func(m *Metrics) **float64 { return &m.PctHospReportingInpatient }},
	{ColPctHospReportingICU, func(m *Metrics) **float64 { return &m.PctHospReportingICU }},
}
