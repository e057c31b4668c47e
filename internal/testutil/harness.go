package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/kindgen/internal/app"
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

// GenerationResult holds the outcomes of a full generation run.
type GenerationResult struct {
	LogOutput   string
	Err         error
	App         *app.App
	ManifestDir string
	OutDir      string
}

// RunGeneration provides a standardized harness for system tests: it writes
// the given manifest files into a temporary root, runs a full
// load-synthesize-emit cycle, and returns the outcome. Keys of files are
// paths relative to the manifest root.
func RunGeneration(t *testing.T, files map[string]string) *GenerationResult {
	t.Helper()
	return RunGenerationWithConfig(context.Background(), t, files, nil)
}

// RunGenerationWithConfig runs the harness with a caller-provided context and
// an optional hook that adjusts the configuration before the app starts.
func RunGenerationWithConfig(ctx context.Context, t *testing.T, files map[string]string, adjust func(*app.Config)) *GenerationResult {
	t.Helper()

	tmpDir := t.TempDir()
	manifestDir := filepath.Join(tmpDir, "manifests")
	outDir := filepath.Join(tmpDir, "gen")
	require.NoError(t, os.Mkdir(manifestDir, 0o755))

	for name, content := range files {
		path := filepath.Join(manifestDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := app.Config{
		ManifestPaths: []string{manifestDir},
		OutDir:        outDir,
		LogLevel:      "debug",
		LogFormat:     "text",
		WorkerCount:   4,
	}
	if adjust != nil {
		adjust(&cfg)
	}
	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	result := &GenerationResult{ManifestDir: manifestDir, OutDir: outDir}

	testApp, err := app.NewApp(ctx, logBuffer, validated)
	if err != nil {
		result.LogOutput = logBuffer.String()
		result.Err = err
		return result
	}
	result.App = testApp
	result.Err = testApp.Run(ctx)
	result.LogOutput = logBuffer.String()

	if os.Getenv("KINDGEN_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}

// GeneratedFile reads one generated file from the run's output root.
func (r *GenerationResult) GeneratedFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.OutDir, rel))
	require.NoError(t, err, "generated file %s should exist", rel)
	return string(data)
}
