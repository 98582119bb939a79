package math

import (
	"errors"
	"fmt"
)

// ErrDegenerate is matched by every *DegenerateError.
var ErrDegenerate = errors.New("degenerate input")

// DegenerateError reports geometric input that an operation refused to
// apply (or could only apply partially). The matrix passed to the
// operation is left exactly as documented for that operation.
type DegenerateError struct {
	Op     string
	Reason string
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrDegenerate, e.Reason)
}

func (e *DegenerateError) Is(target error) bool {
	return target == ErrDegenerate
}

func degenerate(op, format string, args ...interface{}) error {
	return &DegenerateError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
