package pipeline

import (
	"errors"
	"fmt"
)

// StructuralError marks a stage-execution failure that is not business
// logic: malformed or non-conforming reasoning output, an unreachable
// store, invalid tool arguments. It is the only failure kind that crosses
// component boundaries; business FAIL verdicts and lookup misses travel as
// data. No phase transition is committed on a structural failure and the
// session remains valid for a retry.
type StructuralError struct {
	Stage string
	Err   error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// Structural wraps err as a StructuralError attributed to a stage.
func Structural(stage string, err error) error {
	return &StructuralError{Stage: stage, Err: err}
}

// Structuralf is Structural with formatting.
func Structuralf(stage, format string, args ...any) error {
	return &StructuralError{Stage: stage, Err: fmt.Errorf(format, args...)}
}

// IsStructural reports whether any error in the chain is a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
