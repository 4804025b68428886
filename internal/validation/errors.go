// Package validation decides whether a gameplan may be saved. Blocking problems are
// reported as errors, advisory ones as warnings; neither is a Go error.
package validation

// Severity classifies a validation entry.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Error is one validation finding. Field tags the editor control it belongs to.
type Error struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (e Error) Error() string { return e.Field + ": " + e.Message }

func blocking(field, msg string) Error {
	return Error{Field: field, Message: msg, Severity: SeverityError}
}

func advisory(field, msg string) Error {
	return Error{Field: field, Message: msg, Severity: SeverityWarning}
}
