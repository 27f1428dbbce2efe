// Package diag defines the diagnostic record shared by the lexer, parser,
// pickle compiler, binder and executor, plus the stable text format used to
// print it.
package diag

import (
	"fmt"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
)

// Kind enumerates every diagnostic kind the core can emit.
type Kind string

const (
	// Parse
	UnexpectedToken      Kind = "unexpected-token"
	UnexpectedEOF        Kind = "unexpected-eof"
	UnterminatedDocString Kind = "unterminated-docstring"
	InvalidTag           Kind = "invalid-tag"
	RowWidthMismatch     Kind = "row-width-mismatch"
	DuplicateFeature     Kind = "duplicate-feature"
	NoSuchFeature        Kind = "no-such-feature"
	OrphanTags           Kind = "orphan-tags"
	MissingExamples      Kind = "missing-examples"

	// Pickle
	UndefinedPlaceholder Kind = "undefined-placeholder"
	EmptyExamples        Kind = "empty-examples"

	// Registry
	StepDefVariadic  Kind = "stepdef/variadic"
	StepDefDuplicate Kind = "stepdef/duplicate"

	// Binding
	Undefined    Kind = "undefined"
	Ambiguous    Kind = "ambiguous"
	InvalidArity Kind = "invalid-arity"

	// Execution
	StepException Kind = "step-exception"
	Pending       Kind = "pending"

	// I/O
	PathNotFound Kind = "path-not-found"
	ReadFailed   Kind = "read-failed"
	WriteFailed  Kind = "write-failed"
)

// Severity distinguishes hard errors from advisory warnings. Most kinds are
// errors; a handful (e.g. EmptyExamples) are warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is the uniform error/warning record used across the core.
type Diagnostic struct {
	Location ast.Location
	Kind     Kind
	Message  string
	Severity Severity
}

// New builds an error-severity diagnostic.
func New(loc ast.Location, kind Kind, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Location: loc, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Warning builds a warning-severity diagnostic.
func Warning(loc ast.Location, kind Kind, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Location: loc, Kind: kind, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

// String renders the stable "path:line:col: kind: message" form. When the
// location has no file (stdin), "-" is used.
func (d Diagnostic) String() string {
	path := d.Location.File
	if path == "" {
		path = "-"
	}
	if d.Location.Column != 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", path, d.Location.Line, d.Location.Column, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s", path, d.Location.Line, d.Kind, d.Message)
}

func (d Diagnostic) Error() string { return d.String() }

// IsError reports whether this diagnostic blocks success (as opposed to an
// advisory warning).
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// List is a collection of diagnostics with grouping helpers used by the
// binder (§4.6) and report (§4.9).
type List []Diagnostic

// HasErrors reports whether any entry is error-severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.IsError() {
			return true
		}
	}
	return false
}

// ByKind groups diagnostics by Kind, preserving within-kind order.
func (l List) ByKind() map[Kind][]Diagnostic {
	out := map[Kind][]Diagnostic{}
	for _, d := range l {
		out[d.Kind] = append(out[d.Kind], d)
	}
	return out
}
