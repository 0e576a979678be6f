package signature

import (
	"errors"
	"fmt"
)

var (
	ErrArityMismatch        = errors.New("incorrect number of arguments")
	ErrArgumentTypeMismatch = errors.New("incorrect argument type")
	ErrReturnTypeMismatch   = errors.New("incorrect return type")
	ErrInvalidSignature     = errors.New("invalid signature")
)

// Error is returned, or raised as a panic by functions obtained from
// Func.Interface, when a checked call fails. Kind is one of
// ErrArityMismatch, ErrArgumentTypeMismatch or ErrReturnTypeMismatch and is
// matched by errors.Is.
type Error struct {
	Kind     error
	Function string
	// Index is the failing argument position, or -1.
	Index int
	// Value is the diagnostic representation of the failing value.
	Value    string
	Expected string
	// Args is the diagnostic representation of the whole argument list.
	Args string
	// Want and Got are the accepted and supplied argument counts of an
	// arity mismatch. Required is the smallest accepted count.
	Want, Required, Got int
	Cause               error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case ErrArityMismatch:
		want := fmt.Sprint(e.Want)
		if e.Required != e.Want {
			want = fmt.Sprintf("%d to %d", e.Required, e.Want)
		}
		msg = fmt.Sprintf("incorrect number of arguments for function %q: expected %s, but got %d: %s",
			e.Function, want, e.Got, e.Args)
	case ErrArgumentTypeMismatch:
		msg = fmt.Sprintf("function %q argument %d called with %s, expecting %s: %s",
			e.Function, e.Index, e.Value, e.Expected, e.Args)
	case ErrReturnTypeMismatch:
		msg = fmt.Sprintf("function %q return value %s, expected %s: %s",
			e.Function, e.Value, e.Expected, e.Args)
	default:
		msg = fmt.Sprintf("function %q: %v", e.Function, e.Kind)
	}
	if e.Cause != nil {
		msg += " (" + e.Cause.Error() + ")"
	}
	return msg
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Cause }
