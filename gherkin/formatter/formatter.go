// Package formatter renders an ast.Feature into the canonical Gherkin text
// form: fixed indentation, title-case keywords, aligned data tables, and a
// trailing newline. format(parse(format(parse(x)))) is required to be a
// byte-level fixpoint.
package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
)

// Format renders feature as canonical Gherkin text, or "" for a nil
// feature.
func Format(feature *ast.Feature) string {
	if feature == nil {
		return ""
	}
	var b strings.Builder
	w := &writer{b: &b}

	w.comments(feature.LeadingComments, 0)
	w.tags(feature.Tags, 0)
	w.headerLine(0, "Feature", feature.Name)
	w.description(feature.Description, 2)

	prevBlank := true
	for _, child := range feature.Children {
		w.blankBefore(&prevBlank)
		switch {
		case child.Background != nil:
			w.background(child.Background, 2)
		case child.Rule != nil:
			w.rule(child.Rule)
		case child.Scenario != nil:
			w.scenario(child.Scenario, 2)
		}
	}

	if len(feature.TrailingComments) > 0 {
		w.blankBefore(&prevBlank)
		w.comments(feature.TrailingComments, 2)
	}

	out := strings.TrimRight(b.String(), "\n") + "\n"
	return out
}

type writer struct {
	b *strings.Builder
}

func (w *writer) blankBefore(prevBlank *bool) {
	if !*prevBlank {
		w.b.WriteString("\n")
	}
	*prevBlank = false
}

func indentStr(n int) string { return strings.Repeat(" ", n) }

// comments renders each comment on its own line, restoring the leading "#"
// that the lexer strips from everything except a line-1 language directive.
func (w *writer) comments(cs []ast.Comment, indent int) {
	for _, c := range cs {
		text := c.Text
		switch {
		case strings.HasPrefix(text, "#"):
			// already a full "#..." line (the line-1 language directive)
		case text == "":
			text = "#"
		default:
			text = "# " + text
		}
		fmt.Fprintf(w.b, "%s%s\n", indentStr(indent), text)
	}
}

func (w *writer) tags(tags []ast.Tag, indent int) {
	if len(tags) == 0 {
		return
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	fmt.Fprintf(w.b, "%s%s\n", indentStr(indent), strings.Join(names, " "))
}

func (w *writer) headerLine(indent int, keyword, name string) {
	if name == "" {
		fmt.Fprintf(w.b, "%s%s:\n", indentStr(indent), keyword)
		return
	}
	fmt.Fprintf(w.b, "%s%s: %s\n", indentStr(indent), keyword, name)
}

func (w *writer) description(desc string, indent int) {
	if desc == "" {
		return
	}
	for _, line := range strings.Split(desc, "\n") {
		if line == "" {
			w.b.WriteString("\n")
			continue
		}
		fmt.Fprintf(w.b, "%s%s\n", indentStr(indent), strings.TrimRight(line, " \t"))
	}
	w.b.WriteString("\n")
}

func (w *writer) rule(r *ast.Rule) {
	w.comments(r.LeadingComments, 2)
	w.tags(r.Tags, 2)
	w.headerLine(2, "Rule", r.Name)
	w.description(r.Description, 4)

	prevBlank := true
	if r.Background != nil {
		w.blankBefore(&prevBlank)
		w.background(r.Background, 4)
	}
	for _, sc := range r.Scenarios {
		w.blankBefore(&prevBlank)
		w.scenario(sc, 4)
	}
	if len(r.TrailingComments) > 0 {
		w.blankBefore(&prevBlank)
		w.comments(r.TrailingComments, 4)
	}
}

func (w *writer) background(b *ast.Background, indent int) {
	w.comments(b.LeadingComments, indent)
	w.headerLine(indent, "Background", b.Name)
	w.description(b.Description, indent+2)
	w.steps(b.Steps, indent+2)
}

func (w *writer) scenario(s *ast.Scenario, indent int) {
	w.comments(s.LeadingComments, indent)
	w.tags(s.Tags, indent)
	keyword := "Scenario"
	if s.IsOutline() {
		keyword = "Scenario Outline"
	}
	w.headerLine(indent, keyword, s.Name)
	w.description(s.Description, indent+2)
	w.steps(s.Steps, indent+2)

	for _, ex := range s.Examples {
		w.b.WriteString("\n")
		w.examples(ex, indent+2)
	}
}

func (w *writer) examples(ex ast.Examples, indent int) {
	w.comments(ex.LeadingComments, indent)
	w.tags(ex.Tags, indent)
	w.headerLine(indent, "Examples", ex.Name)
	w.description(ex.Description, indent+2)

	var rows []ast.Row
	if ex.Header != nil {
		rows = append(rows, *ex.Header)
	}
	rows = append(rows, ex.Rows...)
	w.table(rows, indent+2)
}

func (w *writer) steps(steps []ast.Step, indent int) {
	for _, s := range steps {
		w.comments(s.LeadingComments, indent)
		fmt.Fprintf(w.b, "%s%s %s\n", indentStr(indent), s.Keyword, s.Text)
		if s.Argument == nil {
			continue
		}
		if s.Argument.DocString != nil {
			w.docString(s.Argument.DocString, indent+2)
		}
		if s.Argument.DataTable != nil {
			w.table(s.Argument.DataTable.Rows, indent+2)
		}
	}
}

func (w *writer) docString(ds *ast.DocString, indent int) {
	delim := ds.Delimiter
	if delim == "" {
		delim = `"""`
	}
	header := delim
	if ds.ContentType != "" {
		header += ds.ContentType
	}
	fmt.Fprintf(w.b, "%s%s\n", indentStr(indent), header)
	for _, line := range ds.Lines {
		fmt.Fprintf(w.b, "%s\n", line)
	}
	fmt.Fprintf(w.b, "%s%s\n", indentStr(indent), delim)
}

func (w *writer) table(rows []ast.Row, indent int) {
	if len(rows) == 0 {
		return
	}
	cols := len(rows[0].Cells)
	widths := make([]int, cols)
	escaped := make([][]string, len(rows))
	for ri, row := range rows {
		escaped[ri] = make([]string, cols)
		for ci := 0; ci < cols && ci < len(row.Cells); ci++ {
			cell := escapeCell(row.Cells[ci])
			escaped[ri][ci] = cell
			if w := displayWidth(cell); w > widths[ci] {
				widths[ci] = w
			}
		}
	}

	for _, row := range escaped {
		w.b.WriteString(indentStr(indent))
		w.b.WriteString("|")
		for ci, cell := range row {
			pad := widths[ci] - displayWidth(cell)
			w.b.WriteString(" ")
			w.b.WriteString(cell)
			w.b.WriteString(strings.Repeat(" ", pad))
			w.b.WriteString(" |")
		}
		w.b.WriteString("\n")
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func displayWidth(s string) int {
	return utf8.RuneCountInString(s)
}
