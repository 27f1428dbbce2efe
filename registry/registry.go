// Package registry implements the process-wide StepDef table: registration
// is kept in its own package, separate from whatever drives it (go test
// suite, CLI run), so a binder can accept a pre-captured snapshot without
// holding the registration lock during execution.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"regexp"
	"sync"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
	"github.com/shiftlefter/shiftlefter/gherkin/diag"
)

// StepDef is a single registered regex + function pair.
type StepDef struct {
	ID         string
	Pattern    *regexp.Regexp
	PatternSrc string
	Arity      int // declared arity: fn's total parameter count, including a trailing *exec.Context if present
	Source     Source
	Fn         interface{}
}

// Source pinpoints where a StepDef was registered, for duplicate-source
// diagnostics and ambiguous-match reports.
type Source struct {
	File string
	Line int
}

// Registry holds every registered StepDef, keyed by pattern source+flags
// signature to reject duplicates.
type Registry struct {
	mu      sync.Mutex
	defs    []StepDef
	bySig   map[string]int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{bySig: map[string]int{}}
}

// global is the process-wide instance used for ergonomic registration; no
// API in this package requires it.
var global = New()

// Global returns the process-wide Registry.
func Global() *Registry { return global }

// Register compiles pattern, declares fn's arity from its static signature
// (total parameter count — rejecting variadic functions), and adds the
// StepDef. The arity is recorded once here, at registration time, rather
// than re-derived by reflection on every bind/call. Registration is
// fail-fast: it is a programmer error, not a runtime condition.
func (r *Registry) Register(pattern string, fn interface{}, src Source) (StepDef, error) {
	loc := ast.Location{File: src.File, Line: src.Line}

	arity, err := validateFn(fn)
	if err != nil {
		return StepDef{}, diag.New(loc, diag.StepDefVariadic, "step function for pattern %q is invalid: %s", pattern, err)
	}

	compiled, compileErr := regexp.Compile(pattern)
	if compileErr != nil {
		return StepDef{}, fmt.Errorf("invalid step pattern %q: %w", pattern, compileErr)
	}

	sig := signature(pattern)

	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.bySig[sig]; ok {
		existing := r.defs[idx]
		return StepDef{}, diag.New(loc, diag.StepDefDuplicate,
			"pattern %q already registered at %s:%d (new registration at %s:%d)",
			pattern, existing.Source.File, existing.Source.Line, src.File, src.Line)
	}

	def := StepDef{
		ID:         stepDefID(pattern),
		Pattern:    compiled,
		PatternSrc: pattern,
		Arity:      arity,
		Source:     src,
		Fn:         fn,
	}

	r.bySig[sig] = len(r.defs)
	r.defs = append(r.defs, def)
	return def, nil
}

// Clear removes every registered StepDef, for test isolation.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = nil
	r.bySig = map[string]int{}
}

// Snapshot returns an insertion-order-stable copy of every registered
// StepDef, safe to bind against without holding the registry lock during
// execution.
func (r *Registry) Snapshot() []StepDef {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StepDef, len(r.defs))
	copy(out, r.defs)
	return out
}

func signature(pattern string) string {
	return pattern + "|"
}

func stepDefID(pattern string) string {
	sum := sha256.Sum256([]byte(pattern))
	return "sd-" + hex.EncodeToString(sum[:])[:16]
}

// validateFn rejects non-functions and variadic functions, returning the
// function's declared arity (its total parameter count) otherwise.
func validateFn(fn interface{}) (int, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return 0, fmt.Errorf("not a function: %T", fn)
	}
	if v.Type().IsVariadic() {
		return 0, fmt.Errorf("variadic step functions are not supported: %T", fn)
	}
	return v.Type().NumIn(), nil
}

// NoLocation is used when a StepDef's registration site is not tracked
// (e.g. dynamically generated steps in tests).
var NoLocation = ast.Location{}
