// Package bind matches Pickles against a StepDef snapshot, producing one
// Plan per pickle plus structured undefined/ambiguous/bad-arity diagnostics.
// It is pure and referentially transparent — no registry access happens
// here, only the pre-captured snapshot passed in by the caller.
package bind

import (
	"fmt"

	"github.com/shiftlefter/shiftlefter/gherkin/diag"
	"github.com/shiftlefter/shiftlefter/gherkin/pickle"
	"github.com/shiftlefter/shiftlefter/registry"
)

// BindingKind discriminates a Binding's variant.
type BindingKind int

const (
	BindingBound BindingKind = iota
	BindingUndefined
	BindingAmbiguous
	BindingArityMismatch
)

// Alternative describes one candidate StepDef in an Ambiguous binding.
type Alternative struct {
	ID         string
	PatternSrc string
	Source     registry.Source
}

// Binding is the result of resolving one pickle step against the registry
// snapshot: exactly one of its variants is populated, selected by Kind.
type Binding struct {
	Kind BindingKind

	// BindingBound
	StepDef  registry.StepDef
	Captures []string

	// BindingAmbiguous
	Alternatives []Alternative

	// BindingArityMismatch
	ExpectedSet []int
	Actual      int
}

// Plan is one pickle together with a Binding per step.
type Plan struct {
	Pickle   pickle.Pickle
	Bindings []Binding
}

// Runnable reports whether every binding in the plan is Bound.
func (p Plan) Runnable() bool {
	for _, b := range p.Bindings {
		if b.Kind != BindingBound {
			return false
		}
	}
	return true
}

// Suite is the result of binding every pickle in a run.
type Suite struct {
	Plans       []Plan
	Diagnostics diag.List
}

// Runnable reports whether every plan in the suite is runnable.
func (s Suite) Runnable() bool {
	for _, p := range s.Plans {
		if !p.Runnable() {
			return false
		}
	}
	return true
}

// BindSuite binds every pickle against the given StepDef snapshot. It
// collects all issues across all pickles before returning — it never
// short-circuits.
func BindSuite(pickles []pickle.Pickle, defs []registry.StepDef) Suite {
	var suite Suite
	for _, pk := range pickles {
		plan := Plan{Pickle: pk}
		for _, step := range pk.Steps {
			b := bindStep(step.Text, defs)
			plan.Bindings = append(plan.Bindings, b)
			suite.Diagnostics = append(suite.Diagnostics, diagnosticsFor(pk, step, b)...)
		}
		suite.Plans = append(suite.Plans, plan)
	}
	return suite
}

// bindStep resolves a single step's text against the snapshot. Candidates
// are those whose pattern fully (anchored) matches the text —
// FindStringSubmatchIndex on the whole string already requires the match to
// span characters the regex dictates, but Go regexes are not implicitly
// anchored, so patterns are expected (by convention, as with any Cucumber
// expression library) to anchor themselves with ^..$ when full-line matching
// is desired; here we additionally require the overall match to cover the
// entire text, not substring" rule regardless of whether the author
// remembered the anchors.
func bindStep(text string, defs []registry.StepDef) Binding {
	var candidates []registry.StepDef
	var captures [][]string

	for _, def := range defs {
		loc := def.Pattern.FindStringSubmatchIndex(text)
		if loc == nil || loc[0] != 0 || loc[1] != len(text) {
			continue
		}
		all := def.Pattern.FindStringSubmatch(text)
		candidates = append(candidates, def)
		captures = append(captures, all[1:])
	}

	switch len(candidates) {
	case 0:
		return Binding{Kind: BindingUndefined}
	case 1:
		return resolveArity(candidates[0], captures[0])
	default:
		alts := make([]Alternative, len(candidates))
		for i, c := range candidates {
			alts[i] = Alternative{ID: c.ID, PatternSrc: c.PatternSrc, Source: c.Source}
		}
		return Binding{Kind: BindingAmbiguous, Alternatives: alts}
	}
}

func resolveArity(def registry.StepDef, captures []string) Binding {
	n := len(captures)
	if def.Arity == n || def.Arity == n+1 {
		return Binding{Kind: BindingBound, StepDef: def, Captures: captures}
	}
	return Binding{Kind: BindingArityMismatch, ExpectedSet: []int{n, n + 1}, Actual: def.Arity}
}

func diagnosticsFor(pk pickle.Pickle, step pickle.Step, b Binding) diag.List {
	switch b.Kind {
	case BindingUndefined:
		return diag.List{diag.New(pk.ScenarioLocation, diag.Undefined, "undefined step: %q", step.Text)}
	case BindingAmbiguous:
		msg := fmt.Sprintf("ambiguous step: %q matches %d step definitions", step.Text, len(b.Alternatives))
		return diag.List{diag.New(pk.ScenarioLocation, diag.Ambiguous, "%s", msg)}
	case BindingArityMismatch:
		return diag.List{diag.New(pk.ScenarioLocation, diag.InvalidArity,
			"step %q: step definition declares arity %d but expected one of %v", step.Text, b.Actual, b.ExpectedSet)}
	default:
		return nil
	}
}
