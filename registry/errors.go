package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolvedAlias is returned when a descriptor names an alias that
	// has not been registered.
	ErrUnresolvedAlias = errors.New("unresolved alias")
	// ErrAliasCycle is returned when alias resolution revisits a name. It
	// wraps ErrUnresolvedAlias.
	ErrAliasCycle = fmt.Errorf("%w: alias cycle", ErrUnresolvedAlias)
	// ErrUnknownFilter is returned when a descriptor names a filter that has
	// not been registered.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrSealed is returned by registrations on a sealed registry.
	ErrSealed = errors.New("registry is sealed")
	// ErrReservedName is returned when an alias would shadow a primitive.
	ErrReservedName = errors.New("reserved name")
)

// ValidationError aggregates every problem found by Validate.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("registry validation failed:\n- %s", strings.Join(msgs, "\n- "))
}

func (e *ValidationError) Unwrap() []error { return e.Problems }
