package descriptor

import (
	"fmt"
	"sort"
)

// Kind identifies the base shape of a descriptor.
type Kind uint8

const (
	KindInvalid   Kind = iota
	KindPrimitive      // Number, String, ...
	KindTuple          // fixed-length ordered sequence
	KindArray          // variable-length ordered sequence
	KindObject         // keyed object, wildcard or exact form
	KindRegex          // string matching a pattern
	KindAlias          // named descriptor resolved through the alias registry
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindTuple:
		return "tuple"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindRegex:
		return "regex"
	case KindAlias:
		return "alias"
	default:
		return "invalid"
	}
}

// Primitive names understood by the matcher.
const (
	Number   = "Number"
	String   = "String"
	Boolean  = "Boolean"
	Function = "Function"
	Null     = "Null"
	Void     = "Void"
	Any      = "Any"
	Object   = "Object"
	Array    = "Array"
)

// WildcardKey is the object key that turns an object descriptor into its
// wildcard form.
const WildcardKey = "*"

var primitives = map[string]struct{}{
	Number: {}, String: {}, Boolean: {}, Function: {}, Null: {},
	Void: {}, Any: {}, Object: {}, Array: {},
}

// IsPrimitive reports whether name is one of the reserved primitive names.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// Descriptor is a tagged union describing the expected shape of a value.
// Only the fields relevant to Kind are set. Descriptors are treated as
// immutable values: every builder returns a copy.
type Descriptor struct {
	Kind Kind

	// Name is the primitive name (KindPrimitive) or alias name (KindAlias).
	Name string

	// Elements holds the per-position descriptors of a tuple.
	Elements []Descriptor

	// Elem is the element descriptor of an array.
	Elem *Descriptor

	// Wildcard is set for wildcard-form objects; every value must match it.
	Wildcard *Descriptor

	// Fields holds the required keys of an exact-form object.
	Fields map[string]Descriptor

	// Pattern is the compiled pattern of a regex descriptor.
	Pattern *Pattern

	// Annotations are applied before the base shape is checked.
	Annotations []Annotation
}

// Prim returns a primitive descriptor. It does not validate name; use Parse
// for untrusted input.
func Prim(name string) Descriptor {
	return Descriptor{Kind: KindPrimitive, Name: name}
}

// Alias returns a descriptor referring to a registered alias.
func Alias(name string) Descriptor {
	return Descriptor{Kind: KindAlias, Name: name}
}

// Tuple returns a fixed-length sequence descriptor. A tuple needs at least
// one element; Validate rejects an empty one.
func Tuple(elems ...Descriptor) Descriptor {
	return Descriptor{Kind: KindTuple, Elements: append([]Descriptor(nil), elems...)}
}

// ArrayOf returns a variable-length sequence descriptor.
func ArrayOf(elem Descriptor) Descriptor {
	return Descriptor{Kind: KindArray, Elem: &elem}
}

// MapOf returns a wildcard-form object descriptor: every value of the object
// must match elem, keys are unconstrained.
func MapOf(elem Descriptor) Descriptor {
	return Descriptor{Kind: KindObject, Wildcard: &elem}
}

// ObjectOf returns an exact-form object descriptor. Every named key must be
// present in a matching value; extra keys are tolerated.
func ObjectOf(fields map[string]Descriptor) Descriptor {
	cp := make(map[string]Descriptor, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Descriptor{Kind: KindObject, Fields: cp}
}

// IsWildcard reports whether d is a wildcard-form object descriptor.
func (d Descriptor) IsWildcard() bool {
	return d.Kind == KindObject && d.Wildcard != nil
}

// FieldNames returns the exact-form keys of an object descriptor in sorted
// order, so that matching reports the same first failure on every run.
func (d Descriptor) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for k := range d.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsZero reports whether d is the zero Descriptor.
func (d Descriptor) IsZero() bool {
	return d.Kind == KindInvalid
}

// Validate reports the first structural problem in a descriptor built by
// hand, such as a zero descriptor or an empty tuple. Parse never produces
// such descriptors.
func Validate(d Descriptor) error {
	var err error
	Walk(d, func(n Descriptor) bool {
		if err != nil {
			return false
		}
		switch {
		case n.IsZero():
			err = &SyntaxError{Msg: "descriptor is empty"}
		case n.Kind == KindTuple && len(n.Elements) == 0:
			err = &SyntaxError{Input: "[]", Msg: "tuple descriptor needs at least one element type"}
		case n.Kind == KindArray && n.Elem == nil:
			err = &SyntaxError{Input: "[]", Msg: "array descriptor needs an element type"}
		case (n.Kind == KindPrimitive || n.Kind == KindAlias) && n.Name == "":
			err = &SyntaxError{Msg: fmt.Sprintf("%s descriptor needs a name", n.Kind)}
		case n.Kind == KindRegex && n.Pattern == nil:
			err = &SyntaxError{Msg: "regex descriptor needs a pattern"}
		}
		return err == nil
	})
	return err
}
