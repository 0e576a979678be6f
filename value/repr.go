package value

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-json-experiment/json"
)

// maxReprDepth caps how deep Repr looks for reference cycles.
const maxReprDepth = 256

type jsonMarshaler interface {
	MarshalJSON() ([]byte, error)
}

// Repr returns a best-effort JSON rendering of v for diagnostics. NaN,
// undefined and functions are written bare at any depth, so a key holding
// Undefined reads differently from one holding nil. Keyed objects are
// written with sorted keys. Values that cannot be serialized (cycles,
// channels, infinities) degrade to an opaque "<type>" marker instead of
// failing.
func Repr(v any) string {
	v = Normalize(v)
	if cyclic(reflect.ValueOf(v), map[uintptr]bool{}, 0) {
		return opaque(v)
	}
	var b strings.Builder
	if err := writeRepr(&b, v); err != nil {
		return opaque(v)
	}
	return b.String()
}

// ReprList renders every value with Repr, as a bracketed list.
func ReprList(vs []any) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Repr(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func writeRepr(b *strings.Builder, v any) error {
	v = Normalize(v)
	switch kind := KindOf(v); kind {
	case KindAbsent:
		b.WriteString("undefined")
		return nil
	case KindNaN:
		b.WriteString("NaN")
		return nil
	case KindFunction:
		b.WriteString("function")
		return nil
	case KindNull:
		b.WriteString("null")
		return nil

	case KindSequence:
		els, _ := Elements(v)
		b.WriteByte('[')
		for i, el := range els {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeRepr(b, el); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil

	case KindObject:
		if hasMarshaler(v) {
			return writeJSON(b, v)
		}
		fields, _ := Fields(v)
		b.WriteByte('{')
		for i, key := range SortedKeys(fields) {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, key); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := writeRepr(b, fields[key]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
		return nil
	}
	return writeJSON(b, v)
}

func writeJSON(b *strings.Builder, v any) error {
	out, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return err
	}
	b.Write(out)
	return nil
}

func hasMarshaler(v any) bool {
	switch v.(type) {
	case jsonMarshaler, encoding.TextMarshaler:
		return true
	}
	return false
}

func opaque(v any) string {
	return fmt.Sprintf("<%T>", v)
}

// cyclic reports whether rv references itself through maps, slices or
// pointers. Structures nested deeper than maxReprDepth count as cyclic.
func cyclic(rv reflect.Value, path map[uintptr]bool, depth int) bool {
	if depth > maxReprDepth {
		return true
	}
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return cyclic(rv.Elem(), path, depth+1)
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return false
		}
		ptr := rv.Pointer()
		if rv.Kind() != reflect.Slice || rv.Len() > 0 {
			if path[ptr] {
				return true
			}
			path[ptr] = true
			defer delete(path, ptr)
		}
		switch rv.Kind() {
		case reflect.Pointer:
			return cyclic(rv.Elem(), path, depth+1)
		case reflect.Map:
			iter := rv.MapRange()
			for iter.Next() {
				if cyclic(iter.Value(), path, depth+1) {
					return true
				}
			}
		case reflect.Slice:
			for i := 0; i < rv.Len(); i++ {
				if cyclic(rv.Index(i), path, depth+1) {
					return true
				}
			}
		}
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if cyclic(rv.Index(i), path, depth+1) {
				return true
			}
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if cyclic(rv.Field(i), path, depth+1) {
				return true
			}
		}
	}
	return false
}
