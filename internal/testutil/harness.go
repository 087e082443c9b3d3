// Package testutil provides shared helpers for package and integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/nsreg/internal/app"
	"github.com/vk/nsreg/internal/registry"
)

// WriteFiles writes files (relative path to content) under a fresh temporary
// directory and returns its path.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}
	return dir
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest writes files to a temporary directory, builds an App
// that loads it as its only module path, and runs the given expressions.
// modules replaces the builtin Go modules when non-empty.
func RunIntegrationTest(t *testing.T, files map[string]string, expressions []string, modules ...registry.Body) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, expressions, modules...)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller
// supplied context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, expressions []string, modules ...registry.Body) *HarnessResult {
	t.Helper()

	cfg := app.DefaultConfig()
	cfg.LogLevel = "debug"
	cfg.Expressions = expressions
	if len(files) > 0 {
		cfg.ModulePaths = []string{WriteFiles(t, files)}
	}

	outBuffer := &SafeBuffer{}
	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		testApp, err = app.NewApp(outBuffer, logBuffer, &cfg, modules...)
	}()

	if err == nil {
		err = testApp.Run(ctx)
	}

	if os.Getenv("NSREG_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Output:    outBuffer.String(),
		LogOutput: logBuffer.String(),
		Err:       err,
		App:       testApp,
	}
}
