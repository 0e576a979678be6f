package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type point struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Hidden string  `json:"-"`
	Label  string
	secret int
}

type stamp struct{}

func (stamp) MarshalText() ([]byte, error) { return []byte("stamp"), nil }

type fakeCallable struct{}

func (fakeCallable) Call(args ...any) (any, error) { return nil, nil }

func TestKindOf(t *testing.T) {
	t.Parallel()

	var nilPtr *point
	var nilFunc func()
	num := 3

	testCases := []struct {
		name     string
		input    any
		expected Kind
	}{
		{name: "nil", input: nil, expected: KindNull},
		{name: "nil pointer", input: nilPtr, expected: KindNull},
		{name: "nil func", input: nilFunc, expected: KindNull},
		{name: "undefined", input: Undefined, expected: KindAbsent},
		{name: "int", input: 42, expected: KindNumber},
		{name: "uint8", input: uint8(7), expected: KindNumber},
		{name: "float", input: -1.0 / 3, expected: KindNumber},
		{name: "pointer to int", input: &num, expected: KindNumber},
		{name: "NaN", input: math.NaN(), expected: KindNaN},
		{name: "float32 NaN", input: float32(math.NaN()), expected: KindNaN},
		{name: "string", input: "hello", expected: KindString},
		{name: "bool", input: false, expected: KindBoolean},
		{name: "func", input: func() {}, expected: KindFunction},
		{name: "callable", input: fakeCallable{}, expected: KindFunction},
		{name: "slice", input: []int{1, 2}, expected: KindSequence},
		{name: "array", input: [2]string{"a", "b"}, expected: KindSequence},
		{name: "map", input: map[string]int{"a": 1}, expected: KindObject},
		{name: "map with int keys", input: map[int]int{1: 1}, expected: KindOther},
		{name: "struct", input: point{}, expected: KindObject},
		{name: "pointer to struct", input: &point{}, expected: KindObject},
		{name: "channel", input: make(chan int), expected: KindOther},
		{name: "cty number", input: cty.NumberIntVal(5), expected: KindNumber},
		{name: "cty null", input: cty.NullVal(cty.String), expected: KindNull},
		{name: "cty unknown", input: cty.UnknownVal(cty.String), expected: KindAbsent},
		{name: "cty tuple", input: cty.TupleVal([]cty.Value{cty.True}), expected: KindSequence},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, KindOf(tc.input))
		})
	}
}

func TestFields_Struct(t *testing.T) {
	t.Parallel()

	fields, ok := Fields(&point{X: 1, Y: 2, Hidden: "h", Label: "p", secret: 9})

	require.True(t, ok)
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0, "Label": "p"}, fields)
}

func TestElements(t *testing.T) {
	t.Parallel()

	els, ok := Elements([3]int{1, 2, 3})
	require.True(t, ok)
	assert.Equal(t, []any{1, 2, 3}, els)

	_, ok = Elements("abc")
	assert.False(t, ok, "strings are not sequences")
}

func TestFromCty(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	in := cty.ObjectVal(map[string]cty.Value{
		"pos":  cty.TupleVal([]cty.Value{cty.NumberIntVal(50), cty.NumberFloatVal(0.5)}),
		"name": cty.StringVal("dvc"),
		"ok":   cty.True,
		"none": cty.NullVal(cty.Number),
		"tags": cty.ListVal([]cty.Value{cty.StringVal("a")}),
	})

	// --- Act ---
	got := FromCty(in)

	// --- Assert ---
	assert.Equal(t, map[string]any{
		"pos":  []any{50.0, 0.5},
		"name": "dvc",
		"ok":   true,
		"none": nil,
		"tags": []any{"a"},
	}, got)
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	got, err := ParseJSON([]byte(`{"a": [1, "x", null], "b": true}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{1.0, "x", nil}, "b": true}, got)

	got, err = ParseJSON([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseJSON([]byte(`{"a":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON value")
}

func TestLenAndFloat(t *testing.T) {
	t.Parallel()

	n, ok := Len("héllo")
	require.True(t, ok)
	assert.Equal(t, 5, n)

	n, ok = Len(map[string]any{"a": 1, "b": 2})
	require.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = Len(12)
	assert.False(t, ok)

	f, ok := Float(uint16(12))
	require.True(t, ok)
	assert.Equal(t, 12.0, f)

	_, ok = Float("12")
	assert.False(t, ok, "numeric strings are not numbers")
}

func TestRepr(t *testing.T) {
	t.Parallel()

	cyclicMap := map[string]any{}
	cyclicMap["self"] = cyclicMap

	testCases := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "number", input: 5, expected: "5"},
		{name: "string", input: "a", expected: `"a"`},
		{name: "null", input: nil, expected: "null"},
		{name: "undefined", input: Undefined, expected: "undefined"},
		{name: "NaN", input: math.NaN(), expected: "NaN"},
		{name: "function", input: func() {}, expected: "function"},
		{name: "sorted map", input: map[string]any{"b": 2, "a": 1}, expected: `{"a":1,"b":2}`},
		{name: "struct", input: point{X: 1, Label: "p"}, expected: `{"Label":"p","x":1,"y":0}`},
		{name: "cycle degrades", input: cyclicMap, expected: "<map[string]interface {}>"},
		{name: "channel degrades", input: make(chan int), expected: "<chan int>"},
		{name: "nested NaN", input: []any{math.NaN()}, expected: "[NaN]"},
		{name: "nested undefined", input: map[string]any{"a": 1, "b": Undefined}, expected: `{"a":1,"b":undefined}`},
		{name: "nested null", input: map[string]any{"a": 1, "b": nil}, expected: `{"a":1,"b":null}`},
		{name: "nested function", input: []any{func() {}, "x"}, expected: `[function,"x"]`},
		{name: "marshaler keeps its encoding", input: []any{stamp{}}, expected: `["stamp"]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Repr(tc.input))
		})
	}
}

func TestReprList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `["a",NaN,undefined]`, ReprList([]any{"a", math.NaN(), Undefined}))
}
