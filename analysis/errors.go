package analysis

import (
	"errors"
	"fmt"
)

// ErrKind classifies analysis failures so the shell can translate them
// into user-facing responses without parsing error strings.
type ErrKind int

const (
	// KindInput marks a missing or empty sample buffer, or a non-positive
	// sample rate.
	KindInput ErrKind = iota

	// KindTransform marks a spectral or cepstral computation that could
	// not run, such as a clip shorter than one analysis window.
	KindTransform

	// KindEstimation marks a tempo or key estimate that came out
	// non-finite or out of range.
	KindEstimation
)

func (k ErrKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTransform:
		return "transform"
	case KindEstimation:
		return "estimation"
	default:
		return "unknown"
	}
}

// Stage names for error reporting
const (
	StageInput     = "input validation"
	StageFrontend  = "spectral frontend"
	StageTempo     = "tempo estimation"
	StageKey       = "key estimation"
	StageAggregate = "feature aggregation"
)

// Error is a typed analysis failure carrying the failing stage and the
// underlying cause. Analysis is all-or-nothing: callers get either a
// complete Result or one of these, never a partial result.
type Error struct {
	Kind  ErrKind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed (%s error): %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrKind, stage string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// KindOf extracts the ErrKind from err. The second return is false when
// err did not originate from the analysis pipeline.
func KindOf(err error) (ErrKind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}
