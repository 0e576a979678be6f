package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/deodorant/internal/app"
	"github.com/specialistvlad/deodorant/internal/hcl_adapter"
	"github.com/specialistvlad/deodorant/internal/yaml_adapter"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Output holds everything the app wrote: command output and logs.
	Output string
	Err    error
	App    *app.App
}

// RunIntegrationTest writes files into a temporary directory and runs the
// verify command over it with the builtin filters registered.
func RunIntegrationTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunCommand(context.Background(), t, files, app.Config{Command: app.CommandVerify, BuiltinFilters: true})
}

// RunCommand writes files into a temporary directory, points cfg at it when
// cfg has no paths of its own, and runs the app with both manifest loaders.
// Startup panics are recovered and reported in Err.
func RunCommand(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()

	// 1. Write all manifests to a temporary directory. Names may contain
	//    subdirectories.
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	// 2. Configure the app.
	if len(cfg.Paths) == 0 && len(files) > 0 {
		cfg.Paths = []string{tmpDir}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hcl_adapter.NewLoader(), yaml_adapter.NewLoader())
	}()

	if panicErr != nil {
		return &HarnessResult{
			Output: logBuffer.String(),
			Err:    fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv("DEODORANT_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Output: logBuffer.String(),
		Err:    runErr,
		App:    testApp,
	}
}
