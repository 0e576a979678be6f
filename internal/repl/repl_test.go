package repl

import (
	"bytes"
	"testing"

	"github.com/specialistvlad/deodorant"
	"github.com/specialistvlad/deodorant/filters"
	"github.com/specialistvlad/deodorant/internal/hcl_adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	engine, err := deodorant.New(deodorant.ModeDebug, deodorant.WithModules(filters.Builtin))
	require.NoError(t, err)
	require.NoError(t, engine.AddAlias("Position", []any{"Number", "Number"}))
	out := &bytes.Buffer{}
	return New(engine, out, hcl_adapter.ParseDescriptorText), out
}

func TestEval_Check(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		line     string
		expected string
	}{
		{line: "check Number 5", expected: "OK\n"},
		{line: `check String "a b"`, expected: "OK\n"},
		{line: "check Position [1, 2]", expected: "OK\n"},
		{line: "check [Number, String] [1, \"a\"]", expected: "OK\n"},
		{line: `check {x = Number} {"x": 1}`, expected: "OK\n"},
		{line: `check "Number?" null`, expected: "OK\n"},
		{line: `check Number|gte:10 5`, expected: "MISMATCH value 5 does not satisfy filter \"gte:10\" of Number|gte:10\n"},
		{line: `check Number "5"`, expected: "MISMATCH expected Number, got \"5\"\n"},
		{line: "check", expected: "error: usage: check DESCRIPTOR JSON\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			s, out := newSession(t)

			// --- Act ---
			quit := s.Eval(tc.line)

			// --- Assert ---
			assert.False(t, quit)
			assert.Equal(t, tc.expected, out.String())
		})
	}
}

func TestEval_CheckUnreadableInput(t *testing.T) {
	t.Parallel()

	s, out := newSession(t)

	s.Eval("check Number {")

	assert.Contains(t, out.String(), "error: could not read a descriptor followed by a JSON value")
}

func TestEval_Alias(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	s, out := newSession(t)

	// --- Act ---
	s.Eval(`alias Percent "Number|gte:0|lte:100"`)
	s.Eval("check Percent 50")
	s.Eval("alias Box {pos = Position, size = Size}")
	s.Eval("show Percent")

	// --- Assert ---
	assert.Equal(t, "Percent = Number|gte:0|lte:100\n"+
		"OK\n"+
		"Box = {pos: Position, size: Size}\n"+
		"warning: registry validation failed:\n- unresolved alias \"Size\"\n"+
		"Percent = Number|gte:0|lte:100\n", out.String())
}

func TestEval_AliasErrors(t *testing.T) {
	t.Parallel()

	s, out := newSession(t)

	s.Eval("alias Number String")
	s.Eval("alias Lonely")
	s.Eval("show Nope")

	assert.Contains(t, out.String(), "error: ")
	assert.Contains(t, out.String(), "usage: alias NAME DESCRIPTOR\n")
	assert.Contains(t, out.String(), "error: unknown alias \"Nope\"\n")
}

func TestEval_Listings(t *testing.T) {
	t.Parallel()

	s, out := newSession(t)

	s.Eval("aliases")
	s.Eval("filters")

	assert.Contains(t, out.String(), "Position = [Number, Number]\n")
	assert.Contains(t, out.String(), "gt, gte, int")
}

func TestEval_Commands(t *testing.T) {
	t.Parallel()

	s, out := newSession(t)

	assert.False(t, s.Eval("help"))
	assert.Contains(t, out.String(), "Commands:")

	assert.False(t, s.Eval("frobnicate"))
	assert.Contains(t, out.String(), `unknown command "frobnicate"`)

	assert.False(t, s.Eval("   "))
	assert.True(t, s.Eval("quit"))
	assert.True(t, s.Eval("exit"))
}
