// Package ast defines the syntax tree produced by the parser: Feature,
// Rule, Background, Scenario, ScenarioOutline, Examples, Step and their
// supporting table/docstring nodes, each carrying a source Location.
package ast

import "fmt"

// Location is a 1-based line/column position in a source file. Column
// counts characters, not bytes.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.Column == 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsZero reports whether the location was never set.
func (l Location) IsZero() bool {
	return l.Line == 0 && l.Column == 0
}
