// Package repl implements the free-mode engine: executing ad-hoc step text
// against named contexts without a surrounding Feature/Scenario, for
// multi-actor sessions. Free-mode never parses feature structure; binding
// and arity rules are identical to bind/exec.
package repl

import (
	"sync"

	"github.com/shiftlefter/shiftlefter/bind"
	"github.com/shiftlefter/shiftlefter/exec"
	"github.com/shiftlefter/shiftlefter/gherkin/pickle"
	"github.com/shiftlefter/shiftlefter/registry"
)

// StepOutcome is the result of resolving and (maybe) running one ad-hoc
// step line.
type StepOutcome struct {
	Status exec.Status
	Error  *exec.StepError
}

// Engine runs free-mode sessions against a registry snapshot. Named session
// contexts are owned by the Engine and mutated only through its public API;
// guard externally (or use one Engine per goroutine) if called from multiple
// threads concurrently.
type Engine struct {
	mu       sync.Mutex
	defs     []registry.StepDef
	sessions map[string]*exec.Context
	global   *exec.Context
	executor *exec.Executor
}

// NewEngine returns a free-mode Engine bound to a registry snapshot.
func NewEngine(defs []registry.StepDef) *Engine {
	return &Engine{
		defs:     defs,
		sessions: map[string]*exec.Context{},
		global:   exec.NewContext(),
		executor: exec.NewExecutor(),
	}
}

// Step resolves text against the registry and, on a unique match, executes
// it against the Engine's single global session context, returning the
// updated outcome. On zero or multiple matches it returns
// Undefined/Ambiguous without executing anything.
func (e *Engine) Step(text string) StepOutcome {
	return e.runOn(e.global, text)
}

// Free executes texts in order against the named session's context, halting
// at the first non-passing step.
func (e *Engine) Free(session string, texts ...string) []StepOutcome {
	ctx := e.sessionCtx(session)

	var outcomes []StepOutcome
	for _, text := range texts {
		out := e.runOn(ctx, text)
		outcomes = append(outcomes, out)
		if out.Status != exec.StatusPassed {
			break
		}
	}
	return outcomes
}

func (e *Engine) sessionCtx(session string) *exec.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, ok := e.sessions[session]
	if !ok {
		ctx = exec.NewContext()
		e.sessions[session] = ctx
	}
	return ctx
}

func (e *Engine) runOn(ctx *exec.Context, text string) StepOutcome {
	binding := bind.BindSuite([]pickle.Pickle{{
		Steps: []pickle.Step{{Text: text}},
	}}, e.defs).Plans[0].Bindings[0]

	switch binding.Kind {
	case bind.BindingUndefined:
		return StepOutcome{Status: exec.StatusUndefined}
	case bind.BindingAmbiguous:
		return StepOutcome{Status: exec.StatusAmbiguous}
	case bind.BindingArityMismatch:
		return StepOutcome{Status: exec.StatusFailed, Error: &exec.StepError{Message: "invalid step arity"}}
	default:
		sr := e.executor.RunStep(ctx, pickle.Step{Text: text}, binding)
		return StepOutcome{Status: sr.Status, Error: sr.Error}
	}
}

// ResetCtx clears the Engine's single global session context.
func (e *Engine) ResetCtx() { e.global.Reset() }

// ResetCtxs clears every named session context.
func (e *Engine) ResetCtxs() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ctx := range e.sessions {
		ctx.Reset()
	}
}

// Ctx returns the global context when name is "", else the named
// session's context (created empty if it does not exist yet).
func (e *Engine) Ctx(name string) *exec.Context {
	if name == "" {
		return e.global
	}
	return e.sessionCtx(name)
}
