// Package match decides whether a runtime value conforms to a descriptor.
//
// Check walks the descriptor and the value together. At every step the
// annotations of the descriptor are applied first (nullable, optional, then
// filters in declaration order), aliases are resolved through the Resolver
// and re-checked from the top, and finally the base shape decides. NaN is
// rejected at every level before any annotation is considered.
package match

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/specialistvlad/deodorant/descriptor"
	"github.com/specialistvlad/deodorant/registry"
	"github.com/specialistvlad/deodorant/value"
)

// MaxDepth bounds how deeply nested a checked value may be.
const MaxDepth = 1000

// Resolver looks up aliases and filters. *registry.Registry implements it.
type Resolver interface {
	Alias(name string) (descriptor.Descriptor, bool)
	Filter(name string) (registry.FilterFunc, bool)
}

// Matcher checks values against descriptors using a Resolver.
type Matcher struct {
	resolver Resolver
}

func New(resolver Resolver) *Matcher {
	return &Matcher{resolver: resolver}
}

// Check returns nil when v matches d. A value that does not match yields a
// *MismatchError. Unregistered aliases and filters, alias cycles and regex
// evaluation failures are returned as errors wrapping the registry
// sentinels or the underlying cause.
func (m *Matcher) Check(v any, d descriptor.Descriptor) error {
	w := walker{resolver: m.resolver}
	return w.check(v, d, nil)
}

// Matches reports whether Check returns nil.
func (m *Matcher) Matches(v any, d descriptor.Descriptor) bool {
	return m.Check(v, d) == nil
}

type walker struct {
	resolver Resolver
	path     []string
	depth    int
}

// check runs one step of the algorithm. chain holds the aliases entered
// since the last structural descent.
func (w *walker) check(v any, d descriptor.Descriptor, chain map[string]bool) error {
	if w.depth >= MaxDepth {
		return w.mismatch(ReasonDepth, d, v)
	}
	w.depth++
	defer func() { w.depth-- }()

	v = value.Normalize(v)
	kind := value.KindOf(v)
	if kind == value.KindNaN {
		return w.mismatch(ReasonNaN, d, v)
	}

	base, _ := d.Strip()
	switch d.Marker() {
	case descriptor.Nullable:
		if kind == value.KindNull {
			return nil
		}
	case descriptor.Optional:
		if kind == value.KindAbsent {
			return nil
		}
	}

	for _, ref := range d.Filters() {
		fn, ok := w.resolver.Filter(ref.Name)
		if !ok {
			return w.fail(fmt.Errorf("%w %q", registry.ErrUnknownFilter, ref.Name))
		}
		if !fn(v, ref.Arg) {
			e := w.mismatch(ReasonFilter, d, v)
			e.Filter = ref.String()
			return e
		}
	}

	switch base.Kind {
	case descriptor.KindAlias:
		return w.checkAlias(v, base.Name, chain)
	case descriptor.KindRegex:
		return w.checkRegex(v, base)
	case descriptor.KindTuple:
		return w.checkTuple(v, kind, base)
	case descriptor.KindArray:
		return w.checkArray(v, kind, base)
	case descriptor.KindObject:
		return w.checkObject(v, kind, base)
	case descriptor.KindPrimitive:
		if !primitiveMatches(base.Name, kind) {
			return w.mismatch(ReasonKind, base, v)
		}
		return nil
	}
	return w.fail(fmt.Errorf("%w: %s", descriptor.ErrInvalidDescriptor, base.Kind))
}

func (w *walker) checkAlias(v any, name string, chain map[string]bool) error {
	if chain[name] {
		return w.fail(fmt.Errorf("%w %q", registry.ErrAliasCycle, name))
	}
	resolved, ok := w.resolver.Alias(name)
	if !ok {
		return w.fail(fmt.Errorf("%w %q", registry.ErrUnresolvedAlias, name))
	}
	next := make(map[string]bool, len(chain)+1)
	for k := range chain {
		next[k] = true
	}
	next[name] = true
	return w.check(v, resolved, next)
}

func (w *walker) checkRegex(v any, d descriptor.Descriptor) error {
	if value.KindOf(v) != value.KindString {
		return w.mismatch(ReasonKind, d, v)
	}
	ok, err := d.Pattern.MatchString(reflect.ValueOf(v).String())
	if err != nil {
		return w.fail(fmt.Errorf("evaluating %s: %w", d, err))
	}
	if !ok {
		return w.mismatch(ReasonPattern, d, v)
	}
	return nil
}

func (w *walker) checkTuple(v any, kind value.Kind, d descriptor.Descriptor) error {
	if kind != value.KindSequence {
		return w.mismatch(ReasonKind, d, v)
	}
	elems, _ := value.Elements(v)
	if len(elems) != len(d.Elements) {
		return w.mismatch(ReasonLength, d, v)
	}
	for i, el := range elems {
		if err := w.descend(index(i), el, d.Elements[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) checkArray(v any, kind value.Kind, d descriptor.Descriptor) error {
	if kind != value.KindSequence {
		return w.mismatch(ReasonKind, d, v)
	}
	elems, _ := value.Elements(v)
	for i, el := range elems {
		if err := w.descend(index(i), el, *d.Elem); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) checkObject(v any, kind value.Kind, d descriptor.Descriptor) error {
	if kind != value.KindObject {
		return w.mismatch(ReasonKind, d, v)
	}
	fields, _ := value.Fields(v)

	if d.IsWildcard() {
		for _, key := range value.SortedKeys(fields) {
			if err := w.descend(field(key), fields[key], *d.Wildcard); err != nil {
				return err
			}
		}
		return nil
	}

	for _, key := range d.FieldNames() {
		fv, present := fields[key]
		if !present {
			w.path = append(w.path, field(key))
			e := w.mismatch(ReasonMissingKey, d.Fields[key], value.Undefined)
			w.path = w.path[:len(w.path)-1]
			return e
		}
		if err := w.descend(field(key), fv, d.Fields[key]); err != nil {
			return err
		}
	}
	return nil
}

// descend checks a nested value with a fresh alias chain.
func (w *walker) descend(segment string, v any, d descriptor.Descriptor) error {
	w.path = append(w.path, segment)
	defer func() { w.path = w.path[:len(w.path)-1] }()
	return w.check(v, d, nil)
}

func primitiveMatches(name string, kind value.Kind) bool {
	switch name {
	case descriptor.Number:
		return kind == value.KindNumber
	case descriptor.String:
		return kind == value.KindString
	case descriptor.Boolean:
		return kind == value.KindBoolean
	case descriptor.Function:
		return kind == value.KindFunction
	case descriptor.Null:
		return kind == value.KindNull
	case descriptor.Void:
		return kind == value.KindAbsent
	case descriptor.Any:
		return kind != value.KindAbsent && kind != value.KindNaN
	case descriptor.Object:
		return kind == value.KindObject
	case descriptor.Array:
		return kind == value.KindSequence
	}
	return false
}

func (w *walker) mismatch(reason Reason, d descriptor.Descriptor, v any) *MismatchError {
	return &MismatchError{
		Path:     w.currentPath(),
		Reason:   reason,
		Expected: d.String(),
		Actual:   value.Repr(v),
	}
}

func (w *walker) fail(err error) error {
	if p := w.currentPath(); p != "" {
		return fmt.Errorf("at %s: %w", p, err)
	}
	return err
}

func (w *walker) currentPath() string {
	return strings.Join(w.path, "")
}

func index(i int) string { return "[" + strconv.Itoa(i) + "]" }

func field(key string) string {
	if isIdentifier(key) {
		return "." + key
	}
	return "[" + strconv.Quote(key) + "]"
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
