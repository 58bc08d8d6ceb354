package models

// Severity ranks how weak a diagnostic category is
type Severity int

const (
	SeverityCritical Severity = iota // average below 50%
	SeverityModerate                 // 50% to below 70%
	SeverityMinor                    // 70% to below 80%
)

// String returns the lowercase label for the tier
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityModerate:
		return "moderate"
	case SeverityMinor:
		return "minor"
	}
	return "unknown"
}

// SeverityFor maps an average score to its tier. Averages of 80 and
// above are not weak areas and must be filtered before calling this.
func SeverityFor(avg float64) Severity {
	switch {
	case avg < 50:
		return SeverityCritical
	case avg < 70:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// WeakArea is a derived diagnostic for a battery, sub-type or
// difficulty tier whose historical average falls below threshold.
// Recomputed on demand, never persisted.
type WeakArea struct {
	Type         QuestionType `json:"type,omitempty"`
	SubType      string       `json:"sub_type,omitempty"`
	Difficulty   Difficulty   `json:"difficulty,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	AverageScore float64      `json:"average_score"`
	SampleCount  int          `json:"sample_count"`
	Severity     Severity     `json:"severity"`
}
