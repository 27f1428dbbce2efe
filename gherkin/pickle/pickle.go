// Package pickle lowers an ast.Feature into a flat, ordered list of
// executable Pickles: Backgrounds prepended, Scenario Outline × Examples
// rows expanded, and tag inheritance resolved.
package pickle

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
	"github.com/shiftlefter/shiftlefter/gherkin/diag"
)

// pickleNamespace is a fixed namespace UUID so that Pickle IDs are stable
// across runs for a given (feature URI, scenario line, example row) key.
// An incrementing counter isn't reproducible across runs, so Pickle IDs
// here are UUID v5 (google/uuid's NewSHA1) of the feature URI plus a
// scenario/row key instead.
var pickleNamespace = uuid.MustParse("5f4d6a4e-8f1a-4b9e-9a6a-7c6d9a6f4a10")

// Step is one executable step inside a Pickle.
type Step struct {
	ID          string
	Text        string
	KeywordKind ast.KeywordKind
	Argument    *ast.StepArgument
	ASTNodeIDs  []string
}

// Pickle is a single flattened, ready-to-execute scenario.
type Pickle struct {
	ID       string
	URI      string
	Name     string
	Language string
	Tags     []string
	Steps    []Step

	ScenarioLocation ast.Location
}

// Compile lowers a parsed Feature into its Pickles, plus any pickle-level
// diagnostics (undefined-placeholder, empty-examples warnings already
// raised by the parser are not duplicated here).
func Compile(feature *ast.Feature) ([]Pickle, diag.List) {
	if feature == nil {
		return nil, nil
	}

	c := &compiler{feature: feature}
	var pickles []Pickle

	for _, child := range feature.Children {
		switch {
		case child.Scenario != nil:
			pickles = append(pickles, c.compileScenario(nil, nil, child.Scenario)...)
		case child.Rule != nil:
			var bkg *ast.Background
			for _, rc := range ruleChildren(child.Rule) {
				if rc.Background != nil {
					bkg = rc.Background
				}
				if rc.Scenario != nil {
					pickles = append(pickles, c.compileScenario(child.Rule, bkg, rc.Scenario)...)
				}
			}
		}
	}

	return pickles, c.diags
}

// ruleChildren normalizes a Rule's Background+Scenarios into the same
// Child-like iteration the top level uses, preserving document order.
func ruleChildren(r *ast.Rule) []ast.Child {
	var out []ast.Child
	if r.Background != nil {
		out = append(out, ast.Child{Background: r.Background})
	}
	for _, sc := range r.Scenarios {
		out = append(out, ast.Child{Scenario: sc})
	}
	return out
}

type compiler struct {
	feature *ast.Feature
	diags   diag.List
}

func (c *compiler) featureBackground() *ast.Background {
	for _, child := range c.feature.Children {
		if child.Background != nil {
			return child.Background
		}
	}
	return nil
}

func (c *compiler) compileScenario(rule *ast.Rule, ruleBkg *ast.Background, sc *ast.Scenario) []Pickle {
	var ruleTags []ast.Tag
	if rule != nil {
		ruleTags = rule.Tags
	}

	var backgrounds []*ast.Background
	if fb := c.featureBackground(); fb != nil {
		backgrounds = append(backgrounds, fb)
	}
	if ruleBkg != nil {
		backgrounds = append(backgrounds, ruleBkg)
	}

	if !sc.IsOutline() {
		tags := unionTags(c.feature.Tags, ruleTags, sc.Tags)
		steps := c.prependBackgrounds(backgrounds, resolveSteps(sc.Steps, nil))
		return []Pickle{c.buildPickle(sc, tags, steps, scenarioKey(sc, -1))}
	}

	var out []Pickle
	for _, ex := range sc.Examples {
		if len(ex.Rows) == 0 {
			continue
		}
		tags := unionTags(c.feature.Tags, ruleTags, sc.Tags, ex.Tags)
		for ri, row := range ex.Rows {
			tmpl := newTemplater(ex.Header, row, sc.Location, c)
			steps := c.prependBackgrounds(backgrounds, resolveSteps(sc.Steps, tmpl))
			out = append(out, c.buildPickle(sc, tags, steps, scenarioKey(sc, ri)))
		}
	}
	return out
}

func scenarioKey(sc *ast.Scenario, rowIndex int) string {
	if rowIndex < 0 {
		return fmt.Sprintf("%d", sc.Location.Line)
	}
	return fmt.Sprintf("%d#%d", sc.Location.Line, rowIndex)
}

func (c *compiler) buildPickle(sc *ast.Scenario, tags []string, steps []Step, key string) Pickle {
	id := uuid.NewSHA1(pickleNamespace, []byte(c.feature.URI+"|"+key)).String()
	return Pickle{
		ID:               id,
		URI:              c.feature.URI,
		Name:             sc.Name,
		Language:         c.feature.Language,
		Tags:             tags,
		Steps:            steps,
		ScenarioLocation: sc.Location,
	}
}

func (c *compiler) prependBackgrounds(backgrounds []*ast.Background, steps []Step) []Step {
	if len(backgrounds) == 0 {
		return steps
	}
	var out []Step
	for _, b := range backgrounds {
		out = append(out, resolveSteps(b.Steps, nil)...)
	}
	return append(out, steps...)
}

// unionTags computes the union of tag sets, de-duplicated, ordered by
// document order of first occurrence.
func unionTags(sets ...[]ast.Tag) []string {
	seen := map[string]bool{}
	var out []string
	for _, set := range sets {
		for _, t := range set {
			if seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			out = append(out, t.Name)
		}
	}
	return out
}

// resolveSteps turns AST steps into pickle steps, applying the outline
// template (if any). Keyword kinds are copied as the parser resolved them
// (And/But/* already inherit the preceding concrete kind there).
func resolveSteps(steps []ast.Step, tmpl *templater) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		ps := Step{
			Text:        s.Text,
			KeywordKind: s.KeywordKind,
			Argument:    s.Argument,
			ASTNodeIDs:  []string{s.Location.String()},
		}
		if tmpl != nil {
			ps.Text = tmpl.apply(s.Text)
			ps.Argument = tmpl.applyArgument(s.Argument)
			ps.ASTNodeIDs = append(ps.ASTNodeIDs, tmpl.rowLocation.String())
		}
		ps.ID = fmt.Sprintf("%s#%d", strings.Join(ps.ASTNodeIDs, ","), len(out))
		out = append(out, ps)
	}
	return out
}
