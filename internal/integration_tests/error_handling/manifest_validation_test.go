package error_handling

import (
	"context"
	"testing"

	"github.com/specialistvlad/deodorant/internal/app"
	"github.com/specialistvlad/deodorant/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestManifestValidation_FailsAtStartup(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		files       map[string]string
		errContains []string
	}{
		{
			name:        "invalid HCL is rejected",
			files:       map[string]string{"main.hcl": `alias "A" { type = `},
			errContains: []string{"failed to parse HCL file"},
		},
		{
			name:        "invalid YAML is rejected",
			files:       map[string]string{"main.yaml": "aliases: [\n"},
			errContains: []string{"failed to decode YAML file"},
		},
		{
			name:        "unknown block",
			files:       map[string]string{"main.hcl": `step "print" "A" {}`},
			errContains: []string{"failed to decode HCL file"},
		},
		{
			name: "dangling alias reference",
			files: map[string]string{
				"main.hcl": `alias "Rect" { type = { pos = Position } }`,
			},
			errContains: []string{"registry validation failed", `alias "Rect": unresolved alias "Position"`},
		},
		{
			name: "alias cycle across files",
			files: map[string]string{
				"a.hcl":  `alias "A" { type = B }`,
				"b.yaml": "aliases:\n  B: A\n",
			},
			errContains: []string{"alias cycle"},
		},
		{
			name: "primitive cannot be redefined",
			files: map[string]string{
				"main.hcl": `alias "Number" { type = String }`,
			},
			errContains: []string{"reserved name"},
		},
		{
			name: "every problem is reported",
			files: map[string]string{
				"main.hcl": `
					alias "A" {
						type = [Missing]
					}
					check "c" {
						type  = "String|nope"
						value = "x"
					}
				`,
			},
			errContains: []string{`unresolved alias "Missing"`, `check "c": unknown filter "nope"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			result := testutil.RunIntegrationTest(t, tc.files)

			// --- Assert ---
			require.Error(t, result.Err)
			require.Nil(t, result.App)
			require.Contains(t, result.Err.Error(), "application startup panicked")
			for _, want := range tc.errContains {
				require.Contains(t, result.Err.Error(), want)
			}
		})
	}
}

func TestManifestValidation_FiltersRequireRegistration(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"main.hcl": `alias "Percent" { type = "Number|gte:0|lte:100" }`,
	}
	cfg := app.Config{Command: app.CommandVerify, BuiltinFilters: false}

	// --- Act ---
	result := testutil.RunCommand(context.Background(), t, files, cfg)

	// --- Assert ---
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), `alias "Percent": unknown filter "gte"`)
	require.Contains(t, result.Err.Error(), `alias "Percent": unknown filter "lte"`)
}
