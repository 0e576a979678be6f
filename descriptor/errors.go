package descriptor

import (
	"errors"
	"fmt"
)

// ErrInvalidDescriptor is the kind of every error produced while parsing a
// descriptor.
var ErrInvalidDescriptor = errors.New("invalid type descriptor")

// SyntaxError describes a malformed descriptor. Input is a rendering of the
// offending fragment.
type SyntaxError struct {
	Input string
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid type descriptor: %s", e.Msg)
	}
	return fmt.Sprintf("invalid type descriptor %s: %s", e.Input, e.Msg)
}

// Is makes every SyntaxError match ErrInvalidDescriptor.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrInvalidDescriptor
}
