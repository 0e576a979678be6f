package type_system

import (
	"testing"

	"github.com/specialistvlad/deodorant/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestTypeSystem_Primitives(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	hcl := `
		check "number" {
			type  = Number
			value = 3.5
		}
		check "string_is_not_number" {
			type   = Number
			value  = "3.5"
			expect = false
		}
		check "boolean" {
			type  = Boolean
			value = false
		}
		check "null" {
			type  = Null
			value = null
		}
		check "any_accepts_null" {
			type  = Any
			value = null
		}
		check "any_rejects_absent" {
			type   = Any
			expect = false
		}
		check "void_accepts_absent" {
			type = Void
		}
		check "void_rejects_null" {
			type   = Void
			value  = null
			expect = false
		}
		check "object_primitive" {
			type  = Object
			value = { a = 1 }
		}
		check "array_primitive" {
			type  = Array
			value = [1, "two"]
		}
	`
	files := map[string]string{"main.hcl": hcl}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, result.Err)
	for _, name := range []string{
		"number", "string_is_not_number", "boolean", "null", "any_accepts_null",
		"any_rejects_absent", "void_accepts_absent", "void_rejects_null",
		"object_primitive", "array_primitive",
	} {
		testutil.AssertCheckPassed(t, result, name)
	}
	require.Contains(t, result.Output, "10 checks, 0 failed\n")
}

func TestTypeSystem_NullableAndOptional(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	yaml := `
checks:
  - name: nullable_accepts_null
    type: "Number?"
    value: null
  - name: nullable_rejects_absent
    type: "Number?"
    expect: false
  - name: optional_accepts_absent
    type: "Number*"
  - name: optional_rejects_null
    type: "Number*"
    value: null
    expect: false
  - name: nullable_tuple
    type: [Number, String, "[]?"]
    value: null
  - name: optional_object
    type: {col: Number, row: Number, "{}*": true}
`
	files := map[string]string{"checks.yaml": yaml}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertCheckPassed(t, result, "nullable_accepts_null")
	testutil.AssertCheckPassed(t, result, "nullable_rejects_absent")
	testutil.AssertCheckPassed(t, result, "optional_accepts_absent")
	testutil.AssertCheckPassed(t, result, "optional_rejects_null")
	testutil.AssertCheckPassed(t, result, "nullable_tuple")
	testutil.AssertCheckPassed(t, result, "optional_object")
}
