package bind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftlefter/shiftlefter/bind"
	"github.com/shiftlefter/shiftlefter/gherkin/pickle"
	"github.com/shiftlefter/shiftlefter/registry"
)

func onePickle(stepText string) []pickle.Pickle {
	return []pickle.Pickle{{
		Name:  "test scenario",
		Steps: []pickle.Step{{Text: stepText}},
	}}
}

func TestBindUndefinedStep(t *testing.T) {
	suite := bind.BindSuite(onePickle("I have 3 items"), nil)
	require.Len(t, suite.Plans, 1)
	require.Len(t, suite.Plans[0].Bindings, 1)
	assert.Equal(t, bind.BindingUndefined, suite.Plans[0].Bindings[0].Kind)
	assert.False(t, suite.Runnable())
}

func TestBindAmbiguousStep(t *testing.T) {
	r := registry.New()
	d1, err := r.Register(`^I have (\d+) items$`, func(n int) error { return nil }, registry.Source{File: "a.go", Line: 1})
	require.NoError(t, err)
	d2, err := r.Register(`^.*items$`, func() error { return nil }, registry.Source{File: "b.go", Line: 1})
	require.NoError(t, err)

	suite := bind.BindSuite(onePickle("I have 3 items"), r.Snapshot())
	b := suite.Plans[0].Bindings[0]
	require.Equal(t, bind.BindingAmbiguous, b.Kind)
	require.Len(t, b.Alternatives, 2)

	ids := []string{b.Alternatives[0].ID, b.Alternatives[1].ID}
	assert.Contains(t, ids, d1.ID)
	assert.Contains(t, ids, d2.ID)
	assert.False(t, suite.Runnable())
}

func TestBindBoundWithCaptures(t *testing.T) {
	r := registry.New()
	_, err := r.Register(`^I have (\d+) cucumbers$`, func(n int) error { return nil }, registry.Source{})
	require.NoError(t, err)

	suite := bind.BindSuite(onePickle("I have 12 cucumbers"), r.Snapshot())
	b := suite.Plans[0].Bindings[0]
	require.Equal(t, bind.BindingBound, b.Kind)
	assert.Equal(t, []string{"12"}, b.Captures)
	assert.True(t, suite.Runnable())
}

func TestBindArityMismatch(t *testing.T) {
	r := registry.New()
	_, err := r.Register(`^I have (\d+) cucumbers$`, func() error { return nil }, registry.Source{})
	require.NoError(t, err)

	suite := bind.BindSuite(onePickle("I have 12 cucumbers"), r.Snapshot())
	b := suite.Plans[0].Bindings[0]
	require.Equal(t, bind.BindingArityMismatch, b.Kind)
	assert.Equal(t, []int{1, 2}, b.ExpectedSet)
	assert.Equal(t, 0, b.Actual)
}

func TestBindAllowsTrailingContextArgument(t *testing.T) {
	r := registry.New()
	_, err := r.Register(`^I have (\d+) cucumbers$`, func(n int, ctx interface{}) error { return nil }, registry.Source{})
	require.NoError(t, err)

	suite := bind.BindSuite(onePickle("I have 12 cucumbers"), r.Snapshot())
	assert.Equal(t, bind.BindingBound, suite.Plans[0].Bindings[0].Kind)
}

func TestBindSuiteNeverShortCircuits(t *testing.T) {
	pickles := []pickle.Pickle{
		{Name: "a", Steps: []pickle.Step{{Text: "undefined one"}}},
		{Name: "b", Steps: []pickle.Step{{Text: "undefined two"}}},
	}
	suite := bind.BindSuite(pickles, nil)
	require.Len(t, suite.Plans, 2)
	assert.Equal(t, bind.BindingUndefined, suite.Plans[0].Bindings[0].Kind)
	assert.Equal(t, bind.BindingUndefined, suite.Plans[1].Bindings[0].Kind)
	assert.Len(t, suite.Diagnostics, 2)
}
