// internal/domain/validation.go
package domain

// ValidationSeverity classifies validation issues.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"   // must be fixed before saving
	SeverityWarning ValidationSeverity = "warning" // should be reviewed
	SeverityInfo    ValidationSeverity = "info"
)

// ValidationIssue is a single problem found while validating a program.
type ValidationIssue struct {
	Severity   ValidationSeverity `json:"severity"`
	Category   string             `json:"category"` // equipment, uniqueness, volume, balance, limitations
	Message    string             `json:"message"`
	Location   string             `json:"location,omitempty"` // e.g. "Week 3, Push Day"
	Suggestion string             `json:"suggestion,omitempty"`
}

// ValidationResult is the outcome of validating a program. A program is
// valid iff it has zero error-severity issues.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Issues  []ValidationIssue `json:"issues"`
	Summary string            `json:"summary,omitempty"`
}

// Errors returns the error-severity issues.
func (r *ValidationResult) Errors() []ValidationIssue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity issues.
func (r *ValidationResult) Warnings() []ValidationIssue {
	return r.filter(SeverityWarning)
}

func (r *ValidationResult) filter(sev ValidationSeverity) []ValidationIssue {
	var out []ValidationIssue
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}
