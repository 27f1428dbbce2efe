// Package report aggregates a run into a machine-readable Summary record.
// It is a pure transformation: (run metadata, bind diagnostics, scenario
// results) → Summary.
package report

import (
	"fmt"

	"github.com/shiftlefter/shiftlefter/bind"
	"github.com/shiftlefter/shiftlefter/exec"
)

// Status is the overall run status.
type Status string

const (
	StatusPassed        Status = "passed"
	StatusFailed        Status = "failed"
	StatusPlanningFailed Status = "planning-failed"
	StatusCrashed       Status = "crashed"
)

// Counts tallies step/scenario outcomes.
type Counts struct {
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Pending   int `json:"pending"`
	Skipped   int `json:"skipped"`
	Scenarios int `json:"scenarios"`
	Steps     int `json:"steps"`
}

// ErrorInfo is a {kind, message[, data]} error record.
type ErrorInfo struct {
	Kind    string                 `json:"kind"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Failure describes one failed step.
type Failure struct {
	ScenarioName  string    `json:"scenario_name"`
	StepText      string    `json:"step_text"`
	Error         ErrorInfo `json:"error"`
	BindingSource string    `json:"binding_source,omitempty"`
}

// PlanningAlternative is one candidate in an ambiguous binding.
type PlanningAlternative struct {
	ID         string `json:"id"`
	PatternSrc string `json:"pattern_src"`
	Source     string `json:"source"`
}

// Arity is the expected/actual arity pair for an invalid-arity issue.
type Arity struct {
	Expected []int `json:"expected"`
	Actual   int   `json:"actual"`
}

// PlanningIssue is one undefined/ambiguous/invalid-arity binding problem.
type PlanningIssue struct {
	Type         string                `json:"type"`
	StepText     string                `json:"step_text"`
	Alternatives []PlanningAlternative `json:"alternatives,omitempty"`
	Arity        *Arity                `json:"arity,omitempty"`
}

// Planning wraps the planning issues when binding failed.
type Planning struct {
	Issues []PlanningIssue `json:"issues"`
}

// Summary is the top-level machine-readable run record.
type Summary struct {
	RunID    string     `json:"run_id"`
	ExitCode int        `json:"exit_code"`
	Status   Status     `json:"status"`
	Counts   Counts     `json:"counts"`
	Failures []Failure  `json:"failures,omitempty"`
	Planning *Planning  `json:"planning,omitempty"`
	Error    *ErrorInfo `json:"error,omitempty"`
}

// FromExecution builds a Summary from a completed run's scenario results.
func FromExecution(runID string, results []exec.ScenarioResult) Summary {
	s := Summary{RunID: runID, Status: StatusPassed, ExitCode: 0}
	s.Counts.Scenarios = len(results)

	failing := false
	for _, r := range results {
		for i, step := range r.Steps {
			s.Counts.Steps++
			switch step.Status {
			case exec.StatusPassed:
				s.Counts.Passed++
			case exec.StatusFailed:
				s.Counts.Failed++
				failing = true
				s.Failures = append(s.Failures, Failure{
					ScenarioName:  r.Plan.Pickle.Name,
					StepText:      step.Step.Text,
					Error:         errorInfo(step.Error),
					BindingSource: bindingSource(r.Plan, i),
				})
			case exec.StatusPending:
				s.Counts.Pending++
			case exec.StatusSkipped:
				s.Counts.Skipped++
			case exec.StatusUndefined, exec.StatusAmbiguous:
				s.Counts.Failed++
				failing = true
			}
		}
	}

	if failing {
		s.Status = StatusFailed
		s.ExitCode = 1
	}
	return s
}

// bindingSource reports "file:line" for the StepDef bound to step i of plan,
// or "" when the step never resolved to a real StepDef (e.g. an arity
// mismatch failure).
func bindingSource(plan bind.Plan, i int) string {
	if i >= len(plan.Bindings) {
		return ""
	}
	b := plan.Bindings[i]
	if b.Kind != bind.BindingBound || b.StepDef.Source.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", b.StepDef.Source.File, b.StepDef.Source.Line)
}

func errorInfo(e *exec.StepError) ErrorInfo {
	if e == nil {
		return ErrorInfo{Kind: "step-exception"}
	}
	return ErrorInfo{Kind: "step-exception", Message: e.Message, Data: e.Data}
}

// FromPlanning builds a planning-failed Summary from a bind.Suite that is
// not runnable, without ever having invoked the executor.
func FromPlanning(runID string, suite bind.Suite) Summary {
	s := Summary{RunID: runID, Status: StatusPlanningFailed, ExitCode: 2}
	s.Counts.Scenarios = len(suite.Plans)

	var issues []PlanningIssue
	for _, plan := range suite.Plans {
		for i, b := range plan.Bindings {
			step := plan.Pickle.Steps[i]
			switch b.Kind {
			case bind.BindingUndefined:
				issues = append(issues, PlanningIssue{Type: "undefined", StepText: step.Text})
			case bind.BindingAmbiguous:
				alts := make([]PlanningAlternative, len(b.Alternatives))
				for j, a := range b.Alternatives {
					alts[j] = PlanningAlternative{ID: a.ID, PatternSrc: a.PatternSrc, Source: a.Source.File}
				}
				issues = append(issues, PlanningIssue{Type: "ambiguous", StepText: step.Text, Alternatives: alts})
			case bind.BindingArityMismatch:
				issues = append(issues, PlanningIssue{
					Type:     "invalid-arity",
					StepText: step.Text,
					Arity:    &Arity{Expected: b.ExpectedSet, Actual: b.Actual},
				})
			}
		}
	}
	s.Planning = &Planning{Issues: issues}
	return s
}

// FromCrash builds a crashed Summary for a genuine Go-level error (I/O
// failure, etc.) rather than a planning or execution issue.
func FromCrash(runID string, kind, message string) Summary {
	return Summary{
		RunID:    runID,
		Status:   StatusCrashed,
		ExitCode: 3,
		Error:    &ErrorInfo{Kind: kind, Message: message},
	}
}
