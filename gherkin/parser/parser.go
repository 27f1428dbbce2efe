// Package parser builds an AST from a lexer.Token stream via small
// recursive-descent state machine. It never fails: on an unexpected token it
// emits a diagnostic, skips the token, and continues at the current state,
// so the returned AST may be partial but every surviving node is
// well-formed.
package parser

import (
	"strings"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
	"github.com/shiftlefter/shiftlefter/gherkin/diag"
	"github.com/shiftlefter/shiftlefter/gherkin/lexer"
)

// Parser consumes a token stream and produces an ast.Document.
type Parser struct {
	file            string
	toks            []lexer.Token
	pos             int
	diags           diag.List
	pendingTags     []ast.Tag
	pendingComments []ast.Comment
}

// Parse tokenizes and parses src in one call.
func Parse(src, file string) (*ast.Document, diag.List) {
	res := lexer.New(file).Tokenize(src)
	p := &Parser{file: file, toks: res.Tokens}
	doc := p.parseDocument(res.Language)
	return doc, p.diags
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) eof() bool         { return p.cur().Kind == lexer.KindEOF }
func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(loc ast.Location, kind diag.Kind, format string, args ...interface{}) {
	p.diags = append(p.diags, diag.New(loc, kind, format, args...))
}

// skipNoise advances over Empty tokens and collects Comment tokens into
// pendingComments, so whatever node is parsed next can claim them as its
// LeadingComments via takeComments — this is how a comment sitting between
// two structural lines survives a parse instead of being discarded.
func (p *Parser) skipNoise() {
	for !p.eof() {
		switch p.cur().Kind {
		case lexer.KindEmpty:
			p.advance()
		case lexer.KindComment:
			p.collectComment()
		default:
			return
		}
	}
}

// collectComment stashes the current Comment token into pendingComments and
// advances past it.
func (p *Parser) collectComment() {
	tok := p.cur()
	p.pendingComments = append(p.pendingComments, ast.Comment{Text: tok.Raw, Location: tok.Location})
	p.advance()
}

// takeComments drains and returns every comment collected since the last
// take, in document order.
func (p *Parser) takeComments() []ast.Comment {
	c := p.pendingComments
	p.pendingComments = nil
	return c
}

func (p *Parser) parseDocument(language string) *ast.Document {
	doc := &ast.Document{}

	var sawFeature bool
	for !p.eof() {
		switch p.cur().Kind {
		case lexer.KindEmpty:
			p.advance()
		case lexer.KindComment:
			p.collectComment()
		case lexer.KindTagLine:
			p.collectTags()
		case lexer.KindFeatureLine:
			if sawFeature {
				p.errorf(p.cur().Location, diag.DuplicateFeature, "a .feature file may contain only one Feature")
				p.advance()
				continue
			}
			sawFeature = true
			doc.Feature = p.parseFeature(language)
		default:
			p.errorf(p.cur().Location, diag.UnexpectedToken, "Unexpected token: :%s", p.cur().Kind)
			p.advance()
		}
	}

	p.flushOrphanTags()

	// Anything still pending at end-of-file never found an owning node: if
	// a Feature exists, attach as its trailing comments; otherwise (no
	// Feature at all) keep them on the Document so they are not silently
	// lost, even though nothing currently renders a featureless Document.
	if remaining := p.takeComments(); len(remaining) > 0 {
		if doc.Feature != nil {
			doc.Feature.TrailingComments = append(doc.Feature.TrailingComments, remaining...)
		} else {
			doc.Comments = append(doc.Comments, remaining...)
		}
	}

	return doc
}

func (p *Parser) collectTags() {
	for p.cur().Kind == lexer.KindTagLine {
		loc := p.cur().Location
		for _, name := range p.cur().Tags {
			if !isValidTag(name) {
				p.errorf(loc, diag.InvalidTag, "invalid tag %q", name)
				continue
			}
			p.pendingTags = append(p.pendingTags, ast.Tag{Name: name, Location: loc})
		}
		p.advance()
		p.skipBlankOnly()
	}
}

// skipBlankOnly advances over Empty tokens only (comments are noise but
// kept adjacent to tags is unusual; treat uniformly with skipNoise at call
// sites where comments are acceptable too).
func (p *Parser) skipBlankOnly() {
	for p.cur().Kind == lexer.KindEmpty {
		p.advance()
	}
}

func isValidTag(name string) bool {
	if !strings.HasPrefix(name, "@") || len(name) < 2 {
		return false
	}
	for _, r := range name[1:] {
		if r == ' ' || r == '\t' {
			return false
		}
	}
	return true
}

func (p *Parser) takeTags() []ast.Tag {
	tags := p.pendingTags
	p.pendingTags = nil
	return tags
}

func (p *Parser) flushOrphanTags() bool {
	if len(p.pendingTags) == 0 {
		return false
	}
	for _, t := range p.pendingTags {
		p.errorf(t.Location, diag.OrphanTags, "tag %s has no owning header", t.Name)
	}
	p.pendingTags = nil
	return true
}

// parseDescription consumes Other/Empty tokens up to (not including) the
// next structural token, trimming trailing blank lines.
func (p *Parser) parseDescription() string {
	var lines []string
	for {
		switch p.cur().Kind {
		case lexer.KindOther:
			lines = append(lines, p.cur().Raw)
			p.advance()
		case lexer.KindEmpty:
			lines = append(lines, "")
			p.advance()
		case lexer.KindComment:
			p.collectComment()
		default:
			for len(lines) > 0 && lines[len(lines)-1] == "" {
				lines = lines[:len(lines)-1]
			}
			return strings.Join(lines, "\n")
		}
	}
}

func (p *Parser) parseFeature(language string) *ast.Feature {
	tok := p.advance() // FeatureLine
	f := &ast.Feature{
		Language:        language,
		Tags:            p.takeTags(),
		Name:            tok.Name,
		Location:        tok.Location,
		URI:             p.file,
		LeadingComments: p.takeComments(),
	}
	f.Description = p.parseDescription()

	for !p.eof() {
		switch p.cur().Kind {
		case lexer.KindEmpty:
			p.advance()
		case lexer.KindComment:
			p.collectComment()
		case lexer.KindTagLine:
			p.collectTags()
		case lexer.KindBackgroundLine:
			f.Children = append(f.Children, ast.Child{Background: p.parseBackground()})
		case lexer.KindRuleLine:
			f.Children = append(f.Children, ast.Child{Rule: p.parseRule()})
		case lexer.KindScenarioLine:
			sc := p.parseScenario(ast.ScenarioPlain)
			f.Children = append(f.Children, ast.Child{Scenario: sc})
		case lexer.KindScenarioOutlineLine:
			sc := p.parseScenario(ast.ScenarioOutlineKind)
			f.Children = append(f.Children, ast.Child{Scenario: sc})
		case lexer.KindFeatureLine:
			p.errorf(p.cur().Location, diag.DuplicateFeature, "a .feature file may contain only one Feature")
			p.advance()
		default:
			p.errorf(p.cur().Location, diag.UnexpectedToken, "Unexpected token: :%s", p.cur().Kind)
			p.advance()
		}
	}

	// Comments after the last child with nothing following them belong to
	// the Feature itself as trailing, end-of-file comments.
	f.TrailingComments = append(f.TrailingComments, p.takeComments()...)

	p.flushOrphanTags()
	return f
}

func (p *Parser) parseRule() *ast.Rule {
	tok := p.advance() // RuleLine
	r := &ast.Rule{
		Tags:            p.takeTags(),
		Name:            tok.Name,
		Location:        tok.Location,
		LeadingComments: p.takeComments(),
	}
	r.Description = p.parseDescription()

	for !p.eof() {
		switch p.cur().Kind {
		case lexer.KindEmpty:
			p.advance()
		case lexer.KindComment:
			p.collectComment()
		case lexer.KindTagLine:
			p.collectTags()
		case lexer.KindBackgroundLine:
			if r.Background != nil {
				p.errorf(p.cur().Location, diag.UnexpectedToken, "Unexpected token: :%s", p.cur().Kind)
				p.advance()
				continue
			}
			r.Background = p.parseBackground()
		case lexer.KindScenarioLine:
			r.Scenarios = append(r.Scenarios, p.parseScenario(ast.ScenarioPlain))
		case lexer.KindScenarioOutlineLine:
			r.Scenarios = append(r.Scenarios, p.parseScenario(ast.ScenarioOutlineKind))
		case lexer.KindRuleLine, lexer.KindFeatureLine:
			return r
		default:
			p.errorf(p.cur().Location, diag.UnexpectedToken, "Unexpected token: :%s", p.cur().Kind)
			p.advance()
		}
	}
	r.TrailingComments = append(r.TrailingComments, p.takeComments()...)
	return r
}

func (p *Parser) parseBackground() *ast.Background {
	tok := p.advance() // BackgroundLine
	b := &ast.Background{Name: tok.Name, Location: tok.Location, LeadingComments: p.takeComments()}
	b.Description = p.parseDescription()
	b.Steps = p.parseSteps()
	return b
}

func (p *Parser) parseScenario(kind ast.ScenarioKind) *ast.Scenario {
	tok := p.advance() // ScenarioLine or ScenarioOutlineLine
	sc := &ast.Scenario{
		Tags:            p.takeTags(),
		Kind:            kind,
		Name:            tok.Name,
		Location:        tok.Location,
		LeadingComments: p.takeComments(),
	}
	sc.Description = p.parseDescription()
	sc.Steps = p.parseSteps()

	p.skipNoise()

	var sawExamples bool
	for p.cur().Kind == lexer.KindTagLine || p.cur().Kind == lexer.KindExamplesLine {
		if p.cur().Kind == lexer.KindTagLine {
			p.collectTags()
			continue
		}
		sc.Examples = append(sc.Examples, p.parseExamples())
		sawExamples = true
		p.skipNoise()
	}

	if kind == ast.ScenarioOutlineKind && !sawExamples {
		p.errorf(sc.Location, diag.MissingExamples, "Scenario Outline %q has no Examples", sc.Name)
	}

	// Tags collected above that precede the next Scenario/Outline/Rule header
	// belong to it (the caller parses it); anything else has no owner.
	p.skipNoise()
	switch p.cur().Kind {
	case lexer.KindScenarioLine, lexer.KindScenarioOutlineLine, lexer.KindRuleLine:
	default:
		p.flushOrphanTags()
	}
	return sc
}

func (p *Parser) parseExamples() ast.Examples {
	tok := p.advance() // ExamplesLine
	ex := ast.Examples{Tags: p.takeTags(), Name: tok.Name, Location: tok.Location, LeadingComments: p.takeComments()}
	ex.Description = p.parseDescription()

	rows := p.parseTableRows()
	if len(rows) > 0 {
		ex.Header = &rows[0]
		ex.Rows = rows[1:]
	}
	if len(ex.Rows) == 0 {
		p.diags = append(p.diags, diag.Warning(ex.Location, diag.EmptyExamples, "Examples %q has zero data rows", ex.Name))
	}
	return ex
}

func (p *Parser) parseSteps() []ast.Step {
	var steps []ast.Step
	lastKind := ast.KeywordUnknown

	for p.cur().Kind == lexer.KindStepLine || p.cur().Kind == lexer.KindEmpty || p.cur().Kind == lexer.KindComment {
		if p.cur().Kind == lexer.KindComment {
			p.collectComment()
			continue
		}
		if p.cur().Kind != lexer.KindStepLine {
			p.advance()
			continue
		}
		tok := p.advance()
		kind := tok.StepKind
		if kind == ast.KeywordUnknown {
			kind = lastKind
		}
		lastKind = kind

		step := ast.Step{Keyword: tok.StepKeyword, KeywordKind: kind, Text: tok.Text, Location: tok.Location, LeadingComments: p.takeComments()}
		step.Argument = p.parseStepArgument()
		steps = append(steps, step)
	}
	return steps
}

func (p *Parser) parseStepArgument() *ast.StepArgument {
	switch p.cur().Kind {
	case lexer.KindDocStringDelim:
		return &ast.StepArgument{DocString: p.parseDocString()}
	case lexer.KindTableRow:
		rows := p.parseTableRows()
		return &ast.StepArgument{DataTable: &ast.DataTable{Rows: rows, Location: rows[0].Location}}
	default:
		return nil
	}
}

func (p *Parser) parseDocString() *ast.DocString {
	tok := p.advance() // DocStringDelim open (lexer already merged the content lines)
	if tok.Unterminated {
		p.errorf(tok.Location, diag.UnterminatedDocString, "docstring opened here is never closed")
	}
	ds := &ast.DocString{Delimiter: tok.Delimiter, ContentType: tok.ContentType, Location: tok.Location}
	for p.cur().Kind == lexer.KindOther {
		ds.Lines = append(ds.Lines, p.advance().Raw)
	}
	return ds
}

func (p *Parser) parseTableRows() []ast.Row {
	var rows []ast.Row
	width := -1
	for p.cur().Kind == lexer.KindTableRow {
		tok := p.advance()
		if width == -1 {
			width = len(tok.Cells)
		} else if len(tok.Cells) != width {
			p.errorf(tok.Location, diag.RowWidthMismatch, "row has %d cells, expected %d", len(tok.Cells), width)
		}
		rows = append(rows, ast.Row{Cells: tok.Cells, Location: tok.Location})
	}
	return rows
}
