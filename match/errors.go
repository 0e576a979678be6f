package match

import (
	"errors"
	"fmt"
)

// ErrFilterViolation is matched by every MismatchError caused by a filter
// returning false.
var ErrFilterViolation = errors.New("filter violation")

// Reason says which rule rejected a value.
type Reason uint8

const (
	ReasonKind Reason = iota + 1
	ReasonLength
	ReasonMissingKey
	ReasonFilter
	ReasonPattern
	ReasonNaN
	ReasonDepth
)

func (r Reason) String() string {
	switch r {
	case ReasonKind:
		return "kind"
	case ReasonLength:
		return "length"
	case ReasonMissingKey:
		return "missing key"
	case ReasonFilter:
		return "filter"
	case ReasonPattern:
		return "pattern"
	case ReasonNaN:
		return "NaN"
	case ReasonDepth:
		return "depth"
	default:
		return "unknown"
	}
}

// MismatchError describes the innermost point where a value failed to
// match a descriptor.
type MismatchError struct {
	// Path locates the failing value inside the checked one, e.g. ".pos[1]".
	// It is empty when the top-level value failed.
	Path string
	Reason Reason
	// Expected is the descriptor text at the failing point.
	Expected string
	// Actual is the diagnostic representation of the failing value.
	Actual string
	// Filter names the rejecting filter when Reason is ReasonFilter.
	Filter string
	Cause  error
}

func (e *MismatchError) Error() string {
	var msg string
	switch e.Reason {
	case ReasonFilter:
		msg = fmt.Sprintf("value %s does not satisfy filter %q of %s", e.Actual, e.Filter, e.Expected)
	case ReasonLength:
		msg = fmt.Sprintf("expected %s, got %s of a different length", e.Expected, e.Actual)
	case ReasonMissingKey:
		msg = fmt.Sprintf("missing key, expected %s", e.Expected)
	case ReasonNaN:
		msg = fmt.Sprintf("expected %s, got NaN which matches nothing", e.Expected)
	case ReasonDepth:
		msg = fmt.Sprintf("value nested deeper than %d levels", MaxDepth)
	default:
		msg = fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Path == "" {
		return msg
	}
	return "at " + e.Path + ": " + msg
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrFilterViolation && e.Reason == ReasonFilter
}

func (e *MismatchError) Unwrap() error { return e.Cause }
