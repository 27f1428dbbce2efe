// Package gobddtest is the go-test-facing adapter: Suite, SuiteOptions,
// functional With* options, before/after hooks, and AddStep, driving the
// lexer/parser/pickle/bind/exec core underneath.
package gobddtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/shiftlefter/shiftlefter/bind"
	"github.com/shiftlefter/shiftlefter/exec"
	"github.com/shiftlefter/shiftlefter/gherkin/parser"
	"github.com/shiftlefter/shiftlefter/gherkin/pickle"
	"github.com/shiftlefter/shiftlefter/registry"
	"github.com/shiftlefter/shiftlefter/report"
)

// StepTest is the subset of *testing.T a step function may use.
type StepTest interface {
	Log(...interface{})
	Logf(string, ...interface{})
	Fatal(...interface{})
	Fatalf(string, ...interface{})
	Errorf(string, ...interface{})
	Error(...interface{})
	Fail()
	FailNow()
}

// TestingT is the subset of *testing.T a Suite needs to drive go test.
type TestingT interface {
	StepTest
	Parallel()
	Run(name string, f func(t *testing.T)) bool
}

// SuiteOptions configures how a Suite discovers and runs features.
type SuiteOptions struct {
	featuresPaths  string
	tagExpr        string
	beforeScenario []func(ctx *exec.Context)
	afterScenario  []func(ctx *exec.Context)
	beforeStep     []func(ctx *exec.Context)
	afterStep      []func(ctx *exec.Context)
	runInParallel  bool
}

// NewSuiteOptions returns the default options.
func NewSuiteOptions() SuiteOptions {
	return SuiteOptions{
		featuresPaths: "features/*.feature",
	}
}

// RunInParallel runs the suite's top-level `go test` group in parallel.
func RunInParallel() func(*SuiteOptions) {
	return func(o *SuiteOptions) { o.runInParallel = true }
}

// WithFeaturesPath configures a glob where .feature files can be found.
func WithFeaturesPath(path string) func(*SuiteOptions) {
	return func(o *SuiteOptions) { o.featuresPaths = path }
}

// WithTagExpr filters which effective-tag pickles run, using a minimal
// boolean expression grammar (e.g. "@smoke and not @wip"). An empty
// expression runs everything.
func WithTagExpr(expr string) func(*SuiteOptions) {
	return func(o *SuiteOptions) { o.tagExpr = expr }
}

// WithBeforeScenario registers a hook run before every scenario.
func WithBeforeScenario(f func(ctx *exec.Context)) func(*SuiteOptions) {
	return func(o *SuiteOptions) { o.beforeScenario = append(o.beforeScenario, f) }
}

// WithAfterScenario registers a hook run after every scenario.
func WithAfterScenario(f func(ctx *exec.Context)) func(*SuiteOptions) {
	return func(o *SuiteOptions) { o.afterScenario = append(o.afterScenario, f) }
}

// WithBeforeStep registers a hook run before every step.
func WithBeforeStep(f func(ctx *exec.Context)) func(*SuiteOptions) {
	return func(o *SuiteOptions) { o.beforeStep = append(o.beforeStep, f) }
}

// WithAfterStep registers a hook run after every step.
func WithAfterStep(f func(ctx *exec.Context)) func(*SuiteOptions) {
	return func(o *SuiteOptions) { o.afterStep = append(o.afterStep, f) }
}

// Suite holds everything needed to discover, bind, and execute a
// directory of feature files under `go test`.
type Suite struct {
	t             TestingT
	registry      *registry.Registry
	options       SuiteOptions
	hasStepErrors bool
	reportPath    string
	writeReport   bool
	logger        zerolog.Logger
}

// NewSuite creates a Suite with its own private Registry (not the
// process-wide global) so that independent test binaries/packages never see
// each other's step definitions — the registry-as-global-singleton is an
// ergonomic convenience, never a requirement.
func NewSuite(t TestingT, optionClosures ...func(*SuiteOptions)) *Suite {
	options := NewSuiteOptions()
	for _, apply := range optionClosures {
		apply(&options)
	}
	return &Suite{
		t:        t,
		registry: registry.New(),
		options:  options,
		logger:   zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
	}
}

// WithJSONReport enables writing a Summary to path after Run.
func (s *Suite) WithJSONReport(path string) {
	s.writeReport = true
	s.reportPath = path
}

// AddStep registers a step definition. The step function must accept zero
// or more capture parameters (string/int/float32/float64/bool) and,
// optionally, a trailing *exec.Context, and must return an error (nil for
// pass, exec.Pending for pending, any other error/*exec.StepError for
// fail) — see exec.Executor for the calling convention.
func (s *Suite) AddStep(expr string, fn interface{}) {
	_, file, line, _ := runtime.Caller(1)
	if _, err := s.registry.Register(expr, fn, registry.Source{File: file, Line: line}); err != nil {
		s.t.Errorf("the step function for step `%s` is incorrect: %s", expr, err)
		s.hasStepErrors = true
	}
}

// Run discovers every feature file matching the suite's glob, binds and
// executes its pickles, and reports results through `go test` subtests,
// one per Feature/Scenario/Step.
func (s *Suite) Run() {
	if s.hasStepErrors {
		s.t.Fatal("the test contains invalid step definitions")
		return
	}

	files, err := filepath.Glob(s.options.featuresPaths)
	if err != nil {
		s.t.Fatalf("cannot find features: %s", err)
		return
	}

	if s.options.runInParallel {
		s.t.Parallel()
	}

	var allResults []exec.ScenarioResult
	for _, file := range files {
		results, err := s.runFeatureFile(file)
		if err != nil {
			s.t.Error(err)
		}
		allResults = append(allResults, results...)
	}

	if s.writeReport {
		summary := report.FromExecution("gobddtest", allResults)
		s.writeJSON(summary)
	}
}

func (s *Suite) runFeatureFile(path string) ([]exec.ScenarioResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open file %s", path)
	}

	doc, diags := parser.Parse(string(data), path)
	for _, d := range diags {
		if d.IsError() {
			s.t.Logf("%s", d.String())
		}
	}
	if doc.Feature == nil {
		return nil, nil
	}

	pickles, pdiags := pickle.Compile(doc.Feature)
	for _, d := range pdiags {
		s.t.Logf("%s", d.String())
	}

	pickles = filterByTagExpr(pickles, s.options.tagExpr)

	suite := bind.BindSuite(pickles, s.registry.Snapshot())

	var results []exec.ScenarioResult
	s.t.Run(strings.TrimSpace(doc.Feature.Name), func(t *testing.T) {
		for _, plan := range suite.Plans {
			results = append(results, s.runPlan(t, plan))
		}
	})
	return results, nil
}

// runPlan executes one bound Plan as nested `go test` subtests, mirroring
// exec.Executor.runScenario's binding-kind switch and skip-after-failure/
// aggregation rules (spec.md §4.6 points 2-4, §4.7 points 2-3, property P7)
// instead of calling Executor.RunStep unconditionally — RunStep assumes a
// Bound binding (a real StepDef to invoke); Undefined/Ambiguous/
// ArityMismatch bindings must be turned into their own StepResult without
// ever reaching reflection.
func (s *Suite) runPlan(t *testing.T, plan bind.Plan) exec.ScenarioResult {
	result := exec.ScenarioResult{Plan: plan}
	t.Run(plan.Pickle.Name, func(t *testing.T) {
		ctx := exec.NewContext()
		s.callHooks(s.options.beforeScenario, ctx)
		defer s.callHooks(s.options.afterScenario, ctx)

		ex := exec.NewExecutor()
		ex.Logger = s.logger

		failed := false
		for i, binding := range plan.Bindings {
			step := plan.Pickle.Steps[i]

			if failed {
				result.Steps = append(result.Steps, exec.StepResult{Step: step, Status: exec.StatusSkipped})
				continue
			}

			s.callHooks(s.options.beforeStep, ctx)
			var sr exec.StepResult
			t.Run(step.Text, func(t *testing.T) {
				switch binding.Kind {
				case bind.BindingUndefined:
					sr = exec.StepResult{Step: step, Status: exec.StatusUndefined}
				case bind.BindingAmbiguous:
					sr = exec.StepResult{Step: step, Status: exec.StatusAmbiguous}
				case bind.BindingArityMismatch:
					sr = exec.StepResult{Step: step, Status: exec.StatusFailed, Error: &exec.StepError{Message: fmt.Sprintf(
						"step definition arity %d does not match expected %v", binding.Actual, binding.ExpectedSet)}}
				default:
					sr = ex.RunStep(ctx, step, binding)
				}

				if sr.Status != exec.StatusPassed {
					msg := string(sr.Status)
					if sr.Error != nil {
						msg = sr.Error.Message
					}
					t.Error(msg)
				}
			})
			s.callHooks(s.options.afterStep, ctx)

			result.Steps = append(result.Steps, sr)
			if sr.Status != exec.StatusPassed {
				failed = true
			}
		}

		result.Status = exec.Aggregate(result.Steps)
	})
	return result
}

func (s *Suite) callHooks(hooks []func(ctx *exec.Context), ctx *exec.Context) {
	for _, h := range hooks {
		h(ctx)
	}
}

func (s *Suite) writeJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		s.t.Logf("cannot marshal report: %s", err)
		return
	}
	if err := os.WriteFile(s.reportPath, b, 0o644); err != nil {
		s.t.Logf("cannot write report: %s", err)
	}
}
