package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.hcl"))
	writeFile(t, filepath.Join(dir, "nested", "b.hcl"))
	writeFile(t, filepath.Join(dir, "nested", "ignored.txt"))

	files, err := FindFilesByExtension(dir, ".hcl")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.hcl")
	b := filepath.Join(dir, "sub", "b.hcl")
	writeFile(t, a)
	writeFile(t, b)
	writeFile(t, filepath.Join(dir, "sub", "c.json"))

	t.Run("mixes files and directories without duplicates", func(t *testing.T) {
		files, err := CollectFiles([]string{a, dir}, ".hcl")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{a, b}, files)
	})

	t.Run("skips missing paths", func(t *testing.T) {
		files, err := CollectFiles([]string{filepath.Join(dir, "nope"), a}, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{a}, files)
	})

	t.Run("ignores non-matching explicit files", func(t *testing.T) {
		files, err := CollectFiles([]string{filepath.Join(dir, "sub", "c.json")}, ".hcl")
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}
