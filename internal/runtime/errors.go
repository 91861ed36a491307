package runtime

import (
	"errors"
	"fmt"
	"intlang/internal/diag"
	"intlang/internal/span"
)

// Sentinel errors. Every *RuntimeError unwraps to one of these.
var (
	ErrDivisionByZero      = errors.New("division by zero")
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrUnknownStatement    = errors.New("unknown statement kind")
	ErrCapacityExceeded    = errors.New("environment capacity exceeded")
	ErrUndefinedVariable   = errors.New("undefined variable")
	ErrStepBudgetExceeded  = errors.New("step budget exceeded")
	ErrMalformedTree       = errors.New("malformed tree")
)

// RuntimeError represents a failure during evaluation or execution.
type RuntimeError struct {
	Code    string
	Message string
	Span    span.Span
	Err     error
}

func (e *RuntimeError) Error() string {
	if !e.Span.Start.Known() {
		return fmt.Sprintf("runtime error: %s", e.Message)
	}
	return fmt.Sprintf("runtime error at %s: %s", e.Span.Start, e.Message)
}

// Unwrap returns the sentinel error classifying e.
func (e *RuntimeError) Unwrap() error { return e.Err }

// Diagnostic converts e into a reportable diagnostic.
func (e *RuntimeError) Diagnostic() diag.Diagnostic {
	return diag.Errorf(e.Code, e.Span, "%s", e.Message)
}

func runtimeErr(code string, sentinel error, s span.Span, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    s,
		Err:     sentinel,
	}
}

// at fills in the location of err if it has none yet.
func at(err error, s span.Span) error {
	var re *RuntimeError
	if errors.As(err, &re) && !re.Span.Start.Known() {
		re.Span = s
	}
	return err
}
