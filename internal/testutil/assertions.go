package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertCheckPassed checks the output of a verify run for a PASS line.
func AssertCheckPassed(t *testing.T, result *HarnessResult, name string) {
	t.Helper()

	line := fmt.Sprintf("PASS %s\n", name)
	require.True(t,
		strings.Contains(result.Output, line),
		"expected check '%s' to pass, output:\n%s", name, result.Output,
	)
}

// AssertCheckFailed checks the output of a verify run for a FAIL line whose
// reason contains reason.
func AssertCheckFailed(t *testing.T, result *HarnessResult, name, reason string) {
	t.Helper()

	prefix := fmt.Sprintf("FAIL %s: ", name)
	for _, line := range strings.Split(result.Output, "\n") {
		if strings.HasPrefix(line, prefix) {
			require.Contains(t, line, reason, "check '%s' failed for another reason", name)
			return
		}
	}
	require.Failf(t, "check did not fail", "expected check '%s' to fail, output:\n%s", name, result.Output)
}
