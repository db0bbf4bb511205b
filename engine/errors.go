package engine

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request before any stage runs. It is fatal and
// produces no AnalysisResult.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// StageFailure records the failure of a single non-required stage. The
// pipeline recovers it into a warning and an empty output collection.
type StageFailure struct {
	Stage string
	Err   error
}

func (e *StageFailure) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageFailure) Unwrap() error { return e.Err }

// ErrCancelled is returned when the caller cancels the run. No partial
// result is returned for a cancelled analysis.
var ErrCancelled = errors.New("analysis cancelled")

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
