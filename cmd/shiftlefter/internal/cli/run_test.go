package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftlefter/shiftlefter/registry"
)

func TestRunRunPassesWithBoundSteps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.feature")
	require.NoError(t, os.WriteFile(path, []byte(""+
		"Feature: Passing\n"+
		"  Scenario: s\n"+
		"    Given a cli-bound passing step\n"), 0o644))

	_, err := registry.Global().Register(`^a cli-bound passing step$`, func() error { return nil }, registry.Source{File: "run_test.go", Line: 1})
	require.NoError(t, err)

	exitCode = -1
	err = runRun([]string{path}, "", false)
	assert.NoError(t, err)
	assert.Equal(t, 0, exitCode)
}

func TestRunRunFailsPlanningOnUndefinedStep(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "undef.feature")
	require.NoError(t, os.WriteFile(path, []byte(""+
		"Feature: Undefined\n"+
		"  Scenario: s\n"+
		"    Given nobody ever defines this cli step\n"), 0o644))

	exitCode = -1
	err := runRun([]string{path}, "", false)
	assert.Error(t, err)
	assert.Equal(t, 2, exitCode)
}

func TestRunRunRejectsInvalidTagExpression(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "any.feature")
	require.NoError(t, os.WriteFile(path, []byte(""+
		"Feature: Any\n"+
		"  Scenario: s\n"+
		"    Given a step\n"), 0o644))

	exitCode = -1
	err := runRun([]string{path}, "not (a valid expr", false)
	assert.Error(t, err)
	assert.Equal(t, 2, exitCode)
}
