package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFmtCheckOKOnCanonicalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clean.feature")
	clean := "Feature: Clean\n" +
		"  Scenario: s\n" +
		"    Given a clean step\n"
	require.NoError(t, os.WriteFile(path, []byte(clean), 0o644))

	exitCode = -1
	err := runFmtCheck([]string{path})
	assert.NoError(t, err)
	assert.Equal(t, 0, exitCode)
}

func TestRunFmtCheckFlagsMessyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messy.feature")
	messy := "Feature:   Messy\n" +
		"        Scenario:s\n" +
		"   Given a messy step\n"
	require.NoError(t, os.WriteFile(path, []byte(messy), 0o644))

	exitCode = -1
	err := runFmtCheck([]string{path})
	assert.Error(t, err)
	assert.Equal(t, 1, exitCode)
}

func TestRunFmtWriteRewritesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "messy.feature")
	messy := "Feature:   Messy\n" +
		"        Scenario:s\n" +
		"   Given a messy step\n"
	require.NoError(t, os.WriteFile(path, []byte(messy), 0o644))

	exitCode = -1
	err := runFmtWrite([]string{path})
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)

	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, messy, string(rewritten))

	exitCode = -1
	require.NoError(t, runFmtCheck([]string{path}))
	assert.Equal(t, 0, exitCode)
}

func TestRunFmtCanonicalRequiresExactlyOneFile(t *testing.T) {
	exitCode = -1
	err := runFmtCanonical([]string{"a", "b"})
	assert.Error(t, err)
	assert.Equal(t, 1, exitCode)
}
