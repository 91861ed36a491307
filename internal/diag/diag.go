// Package diag provides diagnostic (error/warning) types and the sinks
// they are reported to.
package diag

import (
	"fmt"
	"intlang/internal/span"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Stable diagnostic codes. E1xxx come from tree construction, E2xxx from
// evaluation and execution.
const (
	CodeMalformedTree     = "E1001"
	CodeDivisionByZero    = "E2001"
	CodeUnsupportedOp     = "E2002"
	CodeUnknownStatement  = "E2003"
	CodeCapacityExceeded  = "E2004"
	CodeUndefinedVariable = "E2005"
	CodeUndefinedWarning  = "W2005"
	CodeStepBudget        = "E2006"
)

// Diagnostic represents a single reported condition.
type Diagnostic struct {
	Code     string    `json:"code"`           // stable code, e.g. "E2001"
	Severity Severity  `json:"severity"`       // error or warning
	Message  string    `json:"message"`        // human-readable description
	Span     span.Span `json:"span"`           // node location, zero if unknown
	Hint     string    `json:"hint,omitempty"` // optional hint
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	msg := fmt.Sprintf("[%s] %s at %s: %s", d.Code, d.Severity, d.Span.Start, d.Message)
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// Errorf creates an error diagnostic at the given span.
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// Warningf creates a warning diagnostic at the given span.
func Warningf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// HasErrors reports whether any diagnostic in diags is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
