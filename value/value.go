// Package value classifies native Go values for the matcher. Reflection is
// used once per value at the matcher's entry point to decide which of the
// descriptor grammar's value kinds a Go value belongs to.
package value

import (
	"math"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/zclconf/go-cty/cty"
)

// UndefinedType is the type of the Undefined sentinel.
type UndefinedType struct{}

// Undefined is the absent-value sentinel. It is what a wrapped function with
// no results returns, what a missing optional argument is matched as, and
// the only value accepted by the Void primitive.
var Undefined = UndefinedType{}

func (UndefinedType) String() string { return "undefined" }

// MarshalJSON renders Undefined as null.
func (UndefinedType) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// IsUndefined reports whether v is the absent-value sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedType)
	return ok
}

// Callable is implemented by values that behave like functions without
// being Go funcs, such as checked function wrappers.
type Callable interface {
	Call(args ...any) (any, error)
}

// Kind is the descriptor-level classification of a value.
type Kind uint8

const (
	KindOther Kind = iota
	KindAbsent
	KindNull
	KindNaN
	KindNumber
	KindString
	KindBoolean
	KindFunction
	KindSequence
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "undefined"
	case KindNull:
		return "null"
	case KindNaN:
		return "NaN"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindFunction:
		return "function"
	case KindSequence:
		return "sequence"
	case KindObject:
		return "object"
	default:
		return "other"
	}
}

// Normalize converts cty values to native ones and dereferences non-nil
// pointers. Nil pointers and interfaces become nil. Callables are returned
// as they are.
func Normalize(v any) any {
	for {
		switch x := v.(type) {
		case nil, UndefinedType, Callable:
			return v
		case cty.Value:
			n := FromCty(x)
			if _, opaque := n.(cty.Value); opaque {
				return n
			}
			v = n
			continue
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
}

// KindOf classifies v. It does not normalize nested values.
func KindOf(v any) Kind {
	switch x := v.(type) {
	case nil:
		return KindNull
	case UndefinedType:
		return KindAbsent
	case Callable:
		return KindFunction
	case cty.Value:
		n := FromCty(x)
		if _, opaque := n.(cty.Value); opaque {
			return KindOther
		}
		return KindOf(n)
	case float64:
		if math.IsNaN(x) {
			return KindNaN
		}
		return KindNumber
	case string:
		return KindString
	case bool:
		return KindBoolean
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindNumber
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(rv.Float()) {
			return KindNaN
		}
		return KindNumber
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBoolean
	case reflect.Func:
		if rv.IsNil() {
			return KindNull
		}
		return KindFunction
	case reflect.Slice, reflect.Array:
		return KindSequence
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindObject
		}
	case reflect.Struct:
		return KindObject
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	}
	return KindOther
}

// IsNaN reports whether v is a floating point NaN.
func IsNaN(v any) bool {
	return KindOf(Normalize(v)) == KindNaN
}

// Elements returns the elements of a sequence value.
func Elements(v any) ([]any, bool) {
	v = Normalize(v)
	if KindOf(v) != KindSequence {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Fields returns the entries of a keyed-object value. Struct fields are
// keyed by their json tag name when present, otherwise by field name;
// unexported fields and fields tagged "-" are skipped.
func Fields(v any) (map[string]any, bool) {
	v = Normalize(v)
	if KindOf(v) != KindObject {
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	}

	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName := strings.Split(tag, ",")[0]
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		out[name] = rv.Field(i).Interface()
	}
	return out, true
}

// SortedKeys returns the keys of m in sorted order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Float returns the numeric value of v as a float64.
func Float(v any) (float64, bool) {
	v = Normalize(v)
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Len returns the length of a string (in runes), sequence or keyed object.
func Len(v any) (int, bool) {
	v = Normalize(v)
	switch KindOf(v) {
	case KindString:
		return utf8.RuneCountInString(reflect.ValueOf(v).String()), true
	case KindSequence:
		return reflect.ValueOf(v).Len(), true
	case KindObject:
		fields, _ := Fields(v)
		return len(fields), true
	}
	return 0, false
}
