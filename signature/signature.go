// Package signature wraps Go functions so that every call checks the
// arguments and the return value against a list of descriptors.
package signature

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/deodorant/descriptor"
)

// Signature is the argument descriptors and the return descriptor of a
// function.
type Signature struct {
	Args   []descriptor.Descriptor
	Return descriptor.Descriptor
}

// New builds a Signature from one or more descriptors. The last one
// describes the return value.
func New(ds ...descriptor.Descriptor) (Signature, error) {
	if len(ds) == 0 {
		return Signature{}, fmt.Errorf("%w: a signature needs at least a return type", ErrInvalidSignature)
	}
	for i, d := range ds {
		if err := descriptor.Validate(d); err != nil {
			return Signature{}, fmt.Errorf("%w: element %d: %w", ErrInvalidSignature, i, err)
		}
	}
	args := make([]descriptor.Descriptor, len(ds)-1)
	copy(args, ds)
	return Signature{Args: args, Return: ds[len(ds)-1]}, nil
}

// Parse builds a Signature from descriptors in native form, as accepted by
// descriptor.Parse.
func Parse(natives ...any) (Signature, error) {
	ds := make([]descriptor.Descriptor, len(natives))
	for i, n := range natives {
		d, err := descriptor.Parse(n)
		if err != nil {
			return Signature{}, fmt.Errorf("%w: element %d: %w", ErrInvalidSignature, i, err)
		}
		ds[i] = d
	}
	return New(ds...)
}

// MustParse is like Parse but panics on error.
func MustParse(natives ...any) Signature {
	s, err := Parse(natives...)
	if err != nil {
		panic(err)
	}
	return s
}

// Required is the number of leading arguments a call must supply. Trailing
// arguments with an Optional annotation may be omitted.
func (s Signature) Required() int {
	n := len(s.Args)
	for n > 0 && s.Args[n-1].IsOptional() {
		n--
	}
	return n
}

// Descriptors returns the arguments followed by the return descriptor.
func (s Signature) Descriptors() []descriptor.Descriptor {
	return append(append([]descriptor.Descriptor{}, s.Args...), s.Return)
}

// String renders the signature as "(Number, Number) -> Number".
func (s Signature) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + s.Return.String()
}
