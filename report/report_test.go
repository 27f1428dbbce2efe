package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftlefter/shiftlefter/bind"
	"github.com/shiftlefter/shiftlefter/exec"
	"github.com/shiftlefter/shiftlefter/gherkin/pickle"
	"github.com/shiftlefter/shiftlefter/registry"
	"github.com/shiftlefter/shiftlefter/report"
)

func TestFromExecutionAllPassed(t *testing.T) {
	r := registry.New()
	_, err := r.Register(`^ok$`, func() error { return nil }, registry.Source{})
	require.NoError(t, err)

	pk := pickle.Pickle{Name: "s", Steps: []pickle.Step{{Text: "ok"}}}
	suite := bind.BindSuite([]pickle.Pickle{pk}, r.Snapshot())
	ex := exec.NewExecutor()
	results := ex.Run(suite.Plans)

	summary := report.FromExecution("run-1", results)
	assert.Equal(t, report.StatusPassed, summary.Status)
	assert.Equal(t, 0, summary.ExitCode)
	assert.Equal(t, 1, summary.Counts.Scenarios)
	assert.Equal(t, 1, summary.Counts.Passed)
	assert.Empty(t, summary.Failures)
}

func TestFromExecutionWithFailure(t *testing.T) {
	r := registry.New()
	_, err := r.Register(`^it fails$`, func() error { return &exec.StepError{Message: "nope"} }, registry.Source{File: "steps.go", Line: 42})
	require.NoError(t, err)

	pk := pickle.Pickle{Name: "s", Steps: []pickle.Step{{Text: "it fails"}}}
	suite := bind.BindSuite([]pickle.Pickle{pk}, r.Snapshot())
	ex := exec.NewExecutor()
	results := ex.Run(suite.Plans)

	summary := report.FromExecution("run-2", results)
	assert.Equal(t, report.StatusFailed, summary.Status)
	assert.Equal(t, 1, summary.ExitCode)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "nope", summary.Failures[0].Error.Message)
	assert.Equal(t, "steps.go:42", summary.Failures[0].BindingSource)
}

func TestFromPlanningReportsAmbiguousAndUndefined(t *testing.T) {
	r := registry.New()
	_, err := r.Register(`^I have (\d+) items$`, func(n int) error { return nil }, registry.Source{File: "a.go", Line: 1})
	require.NoError(t, err)
	_, err = r.Register(`^.*items$`, func() error { return nil }, registry.Source{File: "b.go", Line: 1})
	require.NoError(t, err)

	pickles := []pickle.Pickle{
		{Name: "ambiguous", Steps: []pickle.Step{{Text: "I have 3 items"}}},
		{Name: "undefined", Steps: []pickle.Step{{Text: "nobody defines this"}}},
	}
	suite := bind.BindSuite(pickles, r.Snapshot())
	require.False(t, suite.Runnable())

	summary := report.FromPlanning("run-3", suite)
	assert.Equal(t, report.StatusPlanningFailed, summary.Status)
	assert.Equal(t, 2, summary.ExitCode)
	require.NotNil(t, summary.Planning)
	require.Len(t, summary.Planning.Issues, 2)

	var sawAmbiguous, sawUndefined bool
	for _, issue := range summary.Planning.Issues {
		switch issue.Type {
		case "ambiguous":
			sawAmbiguous = true
			assert.Len(t, issue.Alternatives, 2)
		case "undefined":
			sawUndefined = true
		}
	}
	assert.True(t, sawAmbiguous)
	assert.True(t, sawUndefined)
}

func TestFromCrash(t *testing.T) {
	summary := report.FromCrash("run-4", "read-failed", "no such file")
	assert.Equal(t, report.StatusCrashed, summary.Status)
	assert.Equal(t, 3, summary.ExitCode)
	require.NotNil(t, summary.Error)
	assert.Equal(t, "read-failed", summary.Error.Kind)
}
