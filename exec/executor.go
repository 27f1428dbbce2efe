package exec

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shiftlefter/shiftlefter/bind"
	"github.com/shiftlefter/shiftlefter/gherkin/pickle"
)

// Status is a scenario or step's terminal state.
type Status string

const (
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusPending   Status = "pending"
	StatusUndefined Status = "undefined"
	StatusAmbiguous Status = "ambiguous"
	StatusSkipped   Status = "skipped"
)

// statusRank orders statuses for the "highest wins" aggregation rule of
// failed > undefined > ambiguous > pending > passed.
var statusRank = map[Status]int{
	StatusFailed:    5,
	StatusUndefined: 4,
	StatusAmbiguous: 3,
	StatusPending:   2,
	StatusPassed:    1,
	StatusSkipped:   0,
}

// StepError is the structured error a step function returns to fail its
// step.
type StepError struct {
	Message string
	Data    map[string]interface{}
}

func (e *StepError) Error() string { return e.Message }

// Pending is the sentinel a step function returns to mark itself (and the
// rest of its scenario) pending.
var Pending = &StepError{Message: "pending"}

// StepResult is the outcome of executing (or skipping) one pickle step.
type StepResult struct {
	Step     pickle.Step
	Status   Status
	Error    *StepError
	Duration time.Duration
}

// ScenarioResult is the outcome of executing one Plan.
type ScenarioResult struct {
	Plan   bind.Plan
	Status Status
	Steps  []StepResult
}

// Executor runs bound plans sequentially; one scenario never runs two steps
// concurrently. Cancellation is cooperative: set Cancel to have the executor
// skip every remaining step of the scenario currently running, and every
// scenario after it.
type Executor struct {
	Logger zerolog.Logger
	Cancel func() bool
}

// NewExecutor returns an Executor with a no-op logger and no cancellation.
func NewExecutor() *Executor {
	return &Executor{Logger: zerolog.Nop(), Cancel: func() bool { return false }}
}

// Run executes every plan in order, returning one ScenarioResult per plan in
// the same order pickles were produced by the compiler.
func (e *Executor) Run(plans []bind.Plan) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(plans))
	for _, plan := range plans {
		if e.Cancel != nil && e.Cancel() {
			results = append(results, e.skipAll(plan))
			continue
		}
		results = append(results, e.runScenario(plan))
	}
	return results
}

func (e *Executor) skipAll(plan bind.Plan) ScenarioResult {
	res := ScenarioResult{Plan: plan, Status: StatusSkipped}
	for _, step := range plan.Pickle.Steps {
		res.Steps = append(res.Steps, StepResult{Step: step, Status: StatusSkipped})
	}
	return res
}

func (e *Executor) runScenario(plan bind.Plan) ScenarioResult {
	res := ScenarioResult{Plan: plan}
	ctx := NewContext()

	failed := false
	for i, binding := range plan.Bindings {
		step := plan.Pickle.Steps[i]

		if failed || (e.Cancel != nil && e.Cancel()) {
			res.Steps = append(res.Steps, StepResult{Step: step, Status: StatusSkipped})
			continue
		}

		var sr StepResult
		switch binding.Kind {
		case bind.BindingUndefined:
			sr = StepResult{Step: step, Status: StatusUndefined}
			failed = true
		case bind.BindingAmbiguous:
			sr = StepResult{Step: step, Status: StatusAmbiguous}
			failed = true
		case bind.BindingArityMismatch:
			sr = StepResult{Step: step, Status: StatusFailed, Error: &StepError{Message: fmt.Sprintf(
				"step definition arity %d does not match expected %v", binding.Actual, binding.ExpectedSet)}}
			failed = true
		default:
			sr = e.runStep(ctx, step, binding)
			if sr.Status == StatusFailed || sr.Status == StatusPending {
				failed = true
			}
		}

		e.Logger.Debug().Str("step", step.Text).Str("status", string(sr.Status)).Dur("duration", sr.Duration).Msg("step executed")
		res.Steps = append(res.Steps, sr)
	}

	res.Status = Aggregate(res.Steps)
	return res
}

// Aggregate computes a scenario's final status from its step results via
// the "highest wins" rank (failed > undefined > ambiguous > pending >
// passed) of spec.md §4.7 point 3 / property P7. Exported so callers that
// drive steps through RunStep one at a time (gobddtest, repl) can still
// produce a spec-correct ScenarioResult.Status.
func Aggregate(steps []StepResult) Status {
	best := StatusPassed
	for _, s := range steps {
		if statusRank[s.Status] > statusRank[best] {
			best = s.Status
		}
	}
	return best
}

// RunStep executes a single bound step against an existing Context, without
// the scenario-level bookkeeping of Run/runScenario. This is what the
// free-mode engine (repl.Engine) uses to thread its named session contexts
// across independent calls to Step/Free.
func (e *Executor) RunStep(ctx *Context, step pickle.Step, binding bind.Binding) StepResult {
	return e.runStep(ctx, step, binding)
}

func (e *Executor) runStep(ctx *Context, step pickle.Step, binding bind.Binding) StepResult {
	start := time.Now()
	err := callStep(binding.StepDef.Fn, binding.StepDef.Arity, binding.Captures, ctx)
	dur := time.Since(start)

	switch {
	case err == nil:
		return StepResult{Step: step, Status: StatusPassed, Duration: dur}
	case err == Pending:
		return StepResult{Step: step, Status: StatusPending, Duration: dur}
	default:
		se, ok := err.(*StepError)
		if !ok {
			se = &StepError{Message: err.Error()}
		}
		return StepResult{Step: step, Status: StatusFailed, Error: se, Duration: dur}
	}
}

// callStep invokes a registered step function via reflection, converting
// each capture to the function's declared parameter type (teacher's
// paramType idiom, generalized to bool in addition to
// string/int/float32/float64) and appending ctx as the trailing argument
// when arity == len(captures)+1.
func callStep(fn interface{}, arity int, captures []string, ctx *Context) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = &StepError{Message: fmt.Sprintf("step panicked: %v", r)}
		}
	}()

	v := reflect.ValueOf(fn)
	t := v.Type()

	wantsContext := arity == len(captures)+1
	args := make([]reflect.Value, 0, arity)
	for i, raw := range captures {
		args = append(args, convertCapture(raw, t.In(i)))
	}
	if wantsContext {
		args = append(args, reflect.ValueOf(ctx))
	}

	out := v.Call(args)
	if len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if last.IsNil() {
		return nil
	}
	return last.Interface().(error)
}

func convertCapture(raw string, want reflect.Type) reflect.Value {
	switch want.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, _ := strconv.ParseInt(raw, 10, 64)
		return reflect.ValueOf(n).Convert(want)
	case reflect.Float32, reflect.Float64:
		f, _ := strconv.ParseFloat(raw, 64)
		return reflect.ValueOf(f).Convert(want)
	case reflect.Bool:
		b, _ := strconv.ParseBool(raw)
		return reflect.ValueOf(b)
	default:
		return reflect.ValueOf(raw)
	}
}
