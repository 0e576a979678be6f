package deodorant

import (
	"context"
	"math"
	"testing"

	"github.com/specialistvlad/deodorant/filters"
	"github.com/specialistvlad/deodorant/signature"
	"github.com/specialistvlad/deodorant/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, mode Mode) *Engine {
	t.Helper()
	e, err := New(mode, WithModules(filters.Builtin))
	require.NoError(t, err)
	require.NoError(t, e.AddAlias("Position", []any{"Number", "Number"}))
	require.NoError(t, e.AddAlias("Size", map[string]any{"width": "Number", "height": "Number"}))
	require.NoError(t, e.AddAlias("Slug", "/[-a-z0-9]+/"))
	return e
}

func TestCheckSignatureForValues(t *testing.T) {
	t.Parallel()

	e := newEngine(t, ModeDebug)
	fn := func() {}

	testCases := []struct {
		name    string
		sig     []any
		values  []any
		wantErr error
	}{
		{
			name:   "filters pass",
			sig:    []any{"Number|gte:0|lte:100", "Number|gte:0|lte:100", "Number|gt:0|lt:100", "Number|gt:0|lt:100"},
			values: []any{0, 100, 1, 99},
		},
		{
			name:    "filters fail",
			sig:     []any{"Number|gte:0|lte:100", "Number|gte:0|lte:100", "Number|gt:0|lt:100", "Number|gt:0|lt:100"},
			values:  []any{-1, 101, 0, 100},
			wantErr: ErrArgumentTypeMismatch,
		},
		{
			name:   "nested tuples and arrays",
			sig:    []any{[]any{[]any{"Number"}, []any{"String"}}, "Null"},
			values: []any{[]any{[]any{1, 3, 4}, []any{"a", "b", "c", "d"}}, nil},
		},
		{
			name:   "one type in an array",
			sig:    []any{[]any{"Number"}, []any{"String"}, []any{"Boolean"}, "Null"},
			values: []any{[]any{1, 2, 3, 4}, []any{"a", "b", "c", "d"}, []any{true, false}, nil},
		},
		{
			name:   "different types in a tuple",
			sig:    []any{[]any{"Number", "String", "Boolean", []any{"Number"}}, "Null"},
			values: []any{[]any{1, "b", true, []any{1, 2, 3, 4}}, nil},
		},
		{
			name: "objects with certain keys",
			sig: []any{map[string]any{
				"pos": "Position", "size": "Size", "username": "String", "onlineUsers": []any{"String"}, "isLoggedIn": "Boolean",
			}, "Null"},
			values: []any{map[string]any{
				"pos": []any{50, 50}, "size": map[string]any{"width": 200, "height": 200},
				"username": "dvcolgan", "onlineUsers": []any{"david", "colgan"}, "isLoggedIn": false,
			}, nil},
		},
		{
			name: "objects with values of one type",
			sig:  []any{map[string]any{"*": "Position"}, "Void"},
			values: []any{map[string]any{
				"p1": []any{50, 50}, "p2": []any{50, 50}, "p3": []any{50, 50},
			}, value.Undefined},
		},
		{
			name:   "aliases in tuples",
			sig:    []any{[]any{"Position", "String"}, "Null"},
			values: []any{[]any{[]any{50, 100}, "something"}, nil},
		},
		{name: "nullable nulls", sig: []any{"Number?", "Number?", "Number?"}, values: []any{nil, nil, nil}},
		{name: "nullable values", sig: []any{"Number?", "Number?", "Number?"}, values: []any{1, 2, 3}},
		{
			name:   "nullable tuple with value",
			sig:    []any{[]any{"Number", "String", "Boolean", "[]?"}, "Null"},
			values: []any{[]any{1, "a", true}, nil},
		},
		{name: "nullable tuple with null", sig: []any{[]any{"Number", "String", "Boolean", "[]?"}, "Null"}, values: []any{nil, nil}},
		{
			name:   "nullable arrays with values",
			sig:    []any{[]any{"Number", "[]?"}, []any{"String", "[]?"}, []any{"Boolean", "[]?"}},
			values: []any{[]any{1, 2, 3}, []any{"a", "b", "c"}, []any{true, false, true}},
		},
		{
			name:   "nullable arrays with nulls",
			sig:    []any{[]any{"Number", "[]?"}, []any{"String", "[]?"}, []any{"Boolean", "[]?"}},
			values: []any{nil, nil, nil},
		},
		{
			name:   "nullable wildcard object",
			sig:    []any{map[string]any{"*": "Number", "{}?": true}, "Null"},
			values: []any{map[string]any{"a": 1, "b": 2, "c": 3}, nil},
		},
		{name: "nullable wildcard object with null", sig: []any{map[string]any{"*": "Number", "{}?": true}, "Null"}, values: []any{nil, nil}},
		{
			name:   "nullable exact object",
			sig:    []any{map[string]any{"col": "Number", "row": "Number", "{}?": true}, "Null"},
			values: []any{map[string]any{"col": 1, "row": 2}, nil},
		},
		{name: "nullable exact object with null", sig: []any{map[string]any{"col": "Number", "row": "Number", "{}?": true}, "Null"}, values: []any{nil, nil}},
		{name: "nullable aliases", sig: []any{"Position?", "Position?", "Position?"}, values: []any{[]any{50, 100}, []any{44, 33}, []any{11, 22}}},
		{name: "nullable aliases with nulls", sig: []any{"Position?", "Position?", "Position?"}, values: []any{nil, nil, nil}},
		{name: "too few arguments", sig: []any{"Number", "Number", "Number", "Null"}, values: []any{4, nil}, wantErr: ErrArityMismatch},
		{name: "too many arguments", sig: []any{"Number", "Number", "Number", "Null"}, values: []any{4, 3, 2, 1, nil}, wantErr: ErrArityMismatch},
		{name: "correct number of arguments", sig: []any{"Number", "Number", "Number", "Null"}, values: []any{4, 3, 2, nil}},
		{name: "numbers", sig: []any{"Number", "Number", "Number"}, values: []any{1, 2.5, -1.0 / 3}},
		{name: "strings", sig: []any{"String", "String", "String"}, values: []any{"Hello world", "", "3"}},
		{name: "booleans", sig: []any{"Boolean", "Boolean", "Boolean"}, values: []any{true, false, true}},
		{name: "functions", sig: []any{"Function", "Function", "Function"}, values: []any{fn, fn, fn}},
		{name: "null", sig: []any{"Null", "Null", "Null"}, values: []any{nil, nil, nil}},
		{name: "regexps that pass", sig: []any{"/a/", "/b/", "/c/"}, values: []any{"a", "b", "c"}},
		{name: "regexps that fail", sig: []any{"/a/", "/b/", "/c/"}, values: []any{"b", "c", "a"}, wantErr: ErrArgumentTypeMismatch},
		{name: "regex alias", sig: []any{"Slug", "Void"}, values: []any{"hello-world", value.Undefined}},
		{
			name: "tuples",
			sig: []any{
				[]any{"Number", "String", "Boolean"}, []any{"Number", "String", "Boolean"},
				[]any{"Number", "String", "Boolean"}, []any{"Number", "String", "Boolean"},
			},
			values: []any{[]any{1, "a", true}, []any{2, "b", false}, []any{3, "c", true}, []any{4, "d", false}},
		},
		{
			name:   "arrays",
			sig:    []any{[]any{"Number"}, []any{"String"}, []any{"Boolean"}, []any{"Null"}},
			values: []any{[]any{1, 2, 3}, []any{"a", "b", "c"}, []any{true, false, true}, []any{nil, nil, nil}},
		},
		{
			name: "objects of the same type",
			sig:  []any{map[string]any{"*": "Number"}, map[string]any{"*": "String"}, map[string]any{"*": "Boolean"}},
			values: []any{
				map[string]any{"a": 1, "b": 2, "c": 3},
				map[string]any{"a": "c", "b": "b", "c": "a"},
				map[string]any{"a": true, "b": false, "c": true},
			},
		},
		{
			name: "objects of different types and keys",
			sig: []any{
				map[string]any{"num": "Number", "str": "String", "bool": "Boolean"},
				map[string]any{"num": "Number", "str": "String", "bool": "Boolean"},
			},
			values: []any{
				map[string]any{"num": 1, "str": "a", "bool": true},
				map[string]any{"num": 2, "str": "b", "bool": false},
			},
		},
		{name: "NaN parameter", sig: []any{"String", "Number", "Boolean"}, values: []any{"a", math.NaN(), true}, wantErr: ErrArgumentTypeMismatch},
		{name: "NaN return value", sig: []any{"String", "Number", "Boolean"}, values: []any{"a", 3, math.NaN()}, wantErr: ErrReturnTypeMismatch},
		{name: "unknown alias", sig: []any{"Colour", "Void"}, values: []any{"red", value.Undefined}, wantErr: ErrUnresolvedAlias},
		{name: "invalid signature", sig: []any{"Number", 3}, values: []any{1, 1}, wantErr: ErrInvalidSignature},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			err := e.CheckSignatureForValues(tc.sig, tc.values...)

			// --- Assert ---
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	e := newEngine(t, ModeDebug)

	assert.NoError(t, e.Check([]any{50, 50}, "Position"))
	assert.ErrorContains(t, e.Check([]any{50, "50"}, "Position"), "at [1]")
	assert.True(t, e.Matches(map[string]any{"a": 1, "b": 2}, map[string]any{"*": "Number"}))
	assert.False(t, e.Matches(map[string]any{"a": 1, "b": "x"}, map[string]any{"*": "Number"}))
	assert.NoError(t, e.Check(nil, "Number?"))
	assert.Error(t, e.Check(nil, "Number"))
	assert.ErrorIs(t, e.Check(1, "Number|between:1:2"), ErrUnknownFilter)
	assert.ErrorIs(t, e.Check(1, "Number?*"), ErrInvalidDescriptor)
	assert.ErrorIs(t, e.Check(-1, "Number|gte:0"), ErrFilterViolation)
}

func TestCheckFunction(t *testing.T) {
	t.Parallel()

	add := func(x, y float64) float64 { return x + y }

	t.Run("debug mode checks calls", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t, ModeDebug)

		wrapped, err := e.CheckFunction([]any{"Number", "Number", "Number"}, add, "add")
		require.NoError(t, err)
		typed := wrapped.(func(float64, float64) float64)

		assert.Equal(t, 5.0, typed(2, 3))
		assert.Panics(t, func() { typed(math.NaN(), 3) })
	})

	t.Run("production mode returns the function", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t, ModeProduction)

		wrapped, err := e.CheckFunction([]any{"Number", "Number", "Number"}, add, "add")
		require.NoError(t, err)
		typed := wrapped.(func(float64, float64) float64)

		assert.NotPanics(t, func() { typed(math.NaN(), 3) })
		assert.Equal(t, ModeProduction, e.Mode())
	})

	t.Run("invalid signature", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t, ModeDebug)
		_, err := e.CheckFunction([]any{}, add, "add")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestCheckModule(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	e := newEngine(t, ModeDebug)
	module := map[string]any{
		"add_": []any{"Number", "Number", "Number"},
		"add":  func(x, y float64) float64 { return x + y },
		"sub_": []any{"Number", "Number", "Number"},
		"sub":  func(x, y float64) float64 { return x - y },
		"mul_": []any{"Number", "Number", "Number"},
		"mul":  func(x, y float64) float64 { return x * y },
		"div_": []any{"Number", "Number", "Number"},
		"div":  func(x, y float64) float64 { return x / y },
	}

	// --- Act ---
	typed, err := e.CheckModule(context.Background(), module)

	// --- Assert ---
	require.NoError(t, err)
	keys := make([]string, 0, len(typed))
	for k := range typed {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"add", "sub", "mul", "div"}, keys)
	assert.Equal(t, 6.0, typed["mul"].(func(float64, float64) float64)(2, 3))
}

func TestCheckClass(t *testing.T) {
	t.Parallel()

	type account struct{ Balance float64 }
	e := newEngine(t, ModeDebug)
	ctor := signature.MustParse("Number|gte:0", "Object")

	class, err := e.CheckClass(func(balance float64) *account { return &account{Balance: balance} }, &ctor, nil)
	require.NoError(t, err)

	obj, err := class.New(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, obj.Value().(*account).Balance)

	_, err = class.New(context.Background(), -1)
	assert.ErrorIs(t, err, ErrArgumentTypeMismatch)
}

func TestAddAlias(t *testing.T) {
	t.Parallel()

	e := newEngine(t, ModeDebug)

	assert.ErrorIs(t, e.AddAlias("Bad", []any{}), ErrInvalidDescriptor)
	require.NoError(t, e.AddAlias("A", "B"))
	require.NoError(t, e.AddAlias("B", "A"))
	assert.ErrorIs(t, e.Validate(), ErrAliasCycle)
	assert.ErrorIs(t, e.Check(1, "A"), ErrAliasCycle)

	require.NoError(t, e.AddFilter("even", func(v any, _ string) bool {
		n, ok := value.Float(v)
		return ok && math.Mod(n, 2) == 0
	}))
	assert.True(t, e.Matches(4, "Number|even"))
	assert.False(t, e.Matches(3, "Number|even"))

	e.Seal()
	assert.Error(t, e.AddAlias("Late", "Number"))
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := ParseMode("production")
	require.NoError(t, err)
	assert.Equal(t, ModeProduction, m)
	assert.Equal(t, "production", m.String())

	m, err = ParseMode("debug")
	require.NoError(t, err)
	assert.Equal(t, ModeDebug, m)

	_, err = ParseMode("loud")
	assert.Error(t, err)
}
