package disease

// Severity is a three-level severity band.
type Severity string

const (
	Mild     Severity = "MILD"
	Moderate Severity = "MODERATE"
	Severe   Severity = "SEVERE"
)

const (
	severeThreshold   = 85.0
	moderateThreshold = 70.0
)

var severityColors = map[Severity]string{
	Mild:     "#22c55e",
	Moderate: "#f97316",
	Severe:   "#ef4444",
}

// Derive maps a label and a percentage confidence to a severity band.
// Every caller that needs a severity goes through Derive.
func Derive(d Disease, confidence float64) Severity {
	switch {
	case d == Normal:
		return Mild
	case confidence >= severeThreshold:
		return Severe
	case confidence >= moderateThreshold:
		return Moderate
	default:
		return Mild
	}
}

// Valid reports whether s is one of the three bands.
func (s Severity) Valid() bool {
	_, ok := severityColors[s]
	return ok
}

// Color returns the hex colour used for s in pages and reports.
func (s Severity) Color() string {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return severityColors[Mild]
}
