package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFeatureFilesFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.feature"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.feature"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(""), 0o644))

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "c.feature"), []byte(""), 0o644))

	files, err := discoverFeatureFiles([]string{dir})
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "a.feature"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.feature"), files[1])
	assert.Equal(t, filepath.Join(sub, "c.feature"), files[2])
}

func TestDiscoverFeatureFilesExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.feature")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	files, err := discoverFeatureFiles([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestDiscoverFeatureFilesMissingPath(t *testing.T) {
	_, err := discoverFeatureFiles([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
