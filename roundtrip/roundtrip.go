// Package roundtrip implements the parse→print→parse fixpoint check of
// parse, format, re-parse, and compare the two ASTs with locations stripped.
package roundtrip

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
	"github.com/shiftlefter/shiftlefter/gherkin/diag"
	"github.com/shiftlefter/shiftlefter/gherkin/formatter"
	"github.com/shiftlefter/shiftlefter/gherkin/parser"
)

// Outcome discriminates the three terminal results of Check.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeMismatch
	OutcomeParseErrors
)

// Result is the outcome of checking one source file.
type Result struct {
	Outcome        Outcome
	OriginalLen    int
	ReconstructedLen int
	ParseErrors    diag.List
	Reformatted    string
}

// ignoreLocations masks every ast.Location field before comparison, so
// structural equality ignores source positions entirely.
var ignoreLocations = cmpopts.IgnoreFields(ast.Location{}, "File", "Line", "Column")

// Check parses source, formats it, reparses the formatted text, and compares
// the two ASTs ignoring locations.
func Check(source, file string) Result {
	doc1, errs1 := parser.Parse(source, file)
	if errs1.HasErrors() {
		return Result{Outcome: OutcomeParseErrors, ParseErrors: errs1}
	}

	reformatted := formatter.Format(doc1.Feature)
	doc2, errs2 := parser.Parse(reformatted, file)
	if errs2.HasErrors() {
		return Result{Outcome: OutcomeParseErrors, ParseErrors: errs2, Reformatted: reformatted}
	}

	if !cmp.Equal(doc1.Feature, doc2.Feature, ignoreLocations, cmpopts.EquateEmpty()) {
		return Result{
			Outcome:          OutcomeMismatch,
			OriginalLen:      len(source),
			ReconstructedLen: len(reformatted),
			Reformatted:      reformatted,
		}
	}

	return Result{Outcome: OutcomeOK, OriginalLen: len(source), ReconstructedLen: len(reformatted), Reformatted: reformatted}
}
