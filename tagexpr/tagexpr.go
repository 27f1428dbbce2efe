// Package tagexpr implements a minimal AND/OR/NOT boolean tag expression
// grammar for filtering pickles by tag, generalizing plain tag-list
// membership checks into "@smoke and not @wip"-style expressions.
package tagexpr

import (
	"strings"

	"github.com/pkg/errors"
)

// Expr evaluates to true or false against a pickle's effective tag set.
type Expr interface {
	eval(tags map[string]bool) bool
}

type tagLit string

func (t tagLit) eval(tags map[string]bool) bool { return tags[string(t)] }

type notExpr struct{ x Expr }

func (n notExpr) eval(tags map[string]bool) bool { return !n.x.eval(tags) }

type andExpr struct{ a, b Expr }

func (e andExpr) eval(tags map[string]bool) bool { return e.a.eval(tags) && e.b.eval(tags) }

type orExpr struct{ a, b Expr }

func (e orExpr) eval(tags map[string]bool) bool { return e.a.eval(tags) || e.b.eval(tags) }

// Parse compiles a tag expression like "@smoke and not @wip" or
// "@a or @b". Operators are case-insensitive words; tags must start
// with '@'. An empty expression is not an error: Parse("") returns an
// always-true Expr so callers can treat "no filter configured" uniformly.
func Parse(src string) (Expr, error) {
	toks := tokenize(src)
	if len(toks) == 0 {
		return alwaysTrue{}, nil
	}
	p := &parser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, errors.Errorf("unexpected token %q in tag expression", p.toks[p.pos])
	}
	return e, nil
}

type alwaysTrue struct{}

func (alwaysTrue) eval(map[string]bool) bool { return true }

// Match reports whether tags (document order, with '@' prefixes)
// satisfies expr.
func Match(expr Expr, tags []string) bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return expr.eval(set)
}

func tokenize(src string) []string {
	fields := strings.Fields(src)
	toks := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, "(", "( ")
		f = strings.ReplaceAll(f, ")", " )")
		toks = append(toks, strings.Fields(f)...)
	}
	return toks
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "or") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orExpr{left, right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for strings.EqualFold(p.peek(), "and") {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = andExpr{left, right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if strings.EqualFold(p.peek(), "not") {
		p.next()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return notExpr{inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	if tok == "(" {
		p.next()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, errors.New("unclosed '(' in tag expression")
		}
		p.next()
		return e, nil
	}
	if tok == "" || !strings.HasPrefix(tok, "@") {
		return nil, errors.Errorf("expected a @tag, got %q", tok)
	}
	p.next()
	return tagLit(tok), nil
}
