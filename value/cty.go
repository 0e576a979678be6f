package value

import (
	"bytes"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// FromCty recursively converts a cty.Value to its most natural Go
// counterpart: numbers become float64, lists, tuples and sets become []any,
// objects and maps become map[string]any. Null becomes nil and unknown
// values become Undefined. Values of types with no native counterpart, such
// as capsules, are returned unchanged.
func FromCty(v cty.Value) any {
	if v.IsMarked() {
		v, _ = v.UnmarkDeep()
	}
	if !v.IsKnown() {
		return Undefined
	}
	if v.IsNull() {
		return nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			f, _ = v.AsBigFloat().Float64()
		}
		return f

	case ty == cty.Bool:
		return v.True()

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, el := it.Element()
			slice = append(slice, FromCty(el))
		}
		return slice

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, el := it.Element()
			m[key.AsString()] = FromCty(el)
		}
		return m
	}
	return v
}

// ParseJSON decodes a JSON document into native values using cty's implied
// type rules: objects become map[string]any, arrays []any, numbers float64.
func ParseJSON(data []byte) (any, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON value: %w", err)
	}
	v, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON value: %w", err)
	}
	return FromCty(v), nil
}
