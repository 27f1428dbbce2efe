package pickle

import (
	"strings"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
	"github.com/shiftlefter/shiftlefter/gherkin/diag"
)

// templater applies one Examples row's column values to `<col>` placeholders
// in step text, docstring content, and table cells — a single shared
// routine, instead of three copies of the substitution loop.
type templater struct {
	values      map[string]string
	rowLocation ast.Location
	stepLoc     ast.Location
	c           *compiler
}

func newTemplater(header *ast.Row, row ast.Row, stepLoc ast.Location, c *compiler) *templater {
	t := &templater{values: map[string]string{}, rowLocation: row.Location, stepLoc: stepLoc, c: c}
	if header == nil {
		return t
	}
	for i, name := range header.Cells {
		if i < len(row.Cells) {
			t.values[name] = row.Cells[i]
		}
	}
	return t
}

func (t *templater) apply(text string) string {
	out := substitutePlaceholders(text, t.values)
	for _, name := range unresolvedPlaceholders(out) {
		t.c.diags = append(t.c.diags, diag.New(t.rowLocation, diag.UndefinedPlaceholder, "undefined placeholder <%s>", name))
	}
	return out
}

func (t *templater) applyArgument(arg *ast.StepArgument) *ast.StepArgument {
	if arg == nil {
		return nil
	}
	out := &ast.StepArgument{}
	if arg.DocString != nil {
		lines := make([]string, len(arg.DocString.Lines))
		for i, l := range arg.DocString.Lines {
			lines[i] = t.apply(l)
		}
		out.DocString = &ast.DocString{
			Delimiter:   arg.DocString.Delimiter,
			ContentType: arg.DocString.ContentType,
			Lines:       lines,
			Location:    arg.DocString.Location,
		}
	}
	if arg.DataTable != nil {
		rows := make([]ast.Row, len(arg.DataTable.Rows))
		for i, row := range arg.DataTable.Rows {
			cells := make([]string, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = t.apply(cell)
			}
			rows[i] = ast.Row{Cells: cells, Location: row.Location}
		}
		out.DataTable = &ast.DataTable{Rows: rows, Location: arg.DataTable.Location}
	}
	return out
}

func substitutePlaceholders(text string, values map[string]string) string {
	if len(values) == 0 {
		return text
	}
	for name, val := range values {
		text = strings.ReplaceAll(text, "<"+name+">", val)
	}
	return text
}

// unresolvedPlaceholders finds any remaining `<..>` sequences so the caller
// can report undefined-placeholder diagnostics.
func unresolvedPlaceholders(text string) []string {
	var names []string
	for {
		start := strings.IndexByte(text, '<')
		if start == -1 {
			return names
		}
		end := strings.IndexByte(text[start:], '>')
		if end == -1 {
			return names
		}
		name := text[start+1 : start+end]
		if name != "" && !strings.ContainsAny(name, " \t<") {
			names = append(names, name)
		}
		text = text[start+end+1:]
	}
}
