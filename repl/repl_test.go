package repl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftlefter/shiftlefter/exec"
	"github.com/shiftlefter/shiftlefter/registry"
	"github.com/shiftlefter/shiftlefter/repl"
)

func TestFreeModeStepUndefined(t *testing.T) {
	e := repl.NewEngine(nil)
	out := e.Step("a step nobody defined")
	assert.Equal(t, exec.StatusUndefined, out.Status)
}

func TestFreeModeSessionContextPersistsAcrossSteps(t *testing.T) {
	r := registry.New()
	_, err := r.Register(`^I deposit (\d+)$`, func(n int, ctx *exec.Context) error {
		balance, _ := ctx.Get("balance")
		b, _ := balance.(int)
		ctx.Set("balance", b+n)
		return nil
	}, registry.Source{})
	require.NoError(t, err)
	_, err = r.Register(`^my balance should be (\d+)$`, func(n int, ctx *exec.Context) error {
		balance, _ := ctx.Get("balance")
		if balance != n {
			return &exec.StepError{Message: "balance mismatch"}
		}
		return nil
	}, registry.Source{})
	require.NoError(t, err)

	e := repl.NewEngine(r.Snapshot())
	outcomes := e.Free("alice", "I deposit 10", "I deposit 5", "my balance should be 15")
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.Equal(t, exec.StatusPassed, o.Status)
	}
}

func TestFreeModeSessionsAreIsolated(t *testing.T) {
	r := registry.New()
	_, err := r.Register(`^I set x to (\d+)$`, func(n int, ctx *exec.Context) error {
		ctx.Set("x", n)
		return nil
	}, registry.Source{})
	require.NoError(t, err)
	_, err = r.Register(`^x should be unset$`, func(ctx *exec.Context) error {
		if _, ok := ctx.Get("x"); ok {
			return &exec.StepError{Message: "x was set"}
		}
		return nil
	}, registry.Source{})
	require.NoError(t, err)

	e := repl.NewEngine(r.Snapshot())
	out1 := e.Free("alice", "I set x to 1")
	require.Equal(t, exec.StatusPassed, out1[0].Status)

	out2 := e.Free("bob", "x should be unset")
	require.Equal(t, exec.StatusPassed, out2[0].Status)
}

func TestFreeModeHaltsAtFirstFailure(t *testing.T) {
	r := registry.New()
	_, err := r.Register(`^it fails$`, func() error { return &exec.StepError{Message: "boom"} }, registry.Source{})
	require.NoError(t, err)
	ran := false
	_, err = r.Register(`^it never runs$`, func() error { ran = true; return nil }, registry.Source{})
	require.NoError(t, err)

	e := repl.NewEngine(r.Snapshot())
	outcomes := e.Free("s", "it fails", "it never runs")
	require.Len(t, outcomes, 1)
	assert.Equal(t, exec.StatusFailed, outcomes[0].Status)
	assert.False(t, ran)
}

func TestResetCtxsClearsAllSessions(t *testing.T) {
	r := registry.New()
	_, err := r.Register(`^I set x to (\d+)$`, func(n int, ctx *exec.Context) error {
		ctx.Set("x", n)
		return nil
	}, registry.Source{})
	require.NoError(t, err)

	e := repl.NewEngine(r.Snapshot())
	e.Free("alice", "I set x to 1")
	e.ResetCtxs()

	_, ok := e.Ctx("alice").Get("x")
	assert.False(t, ok)
}
