// Package dialect loads the per-language Gherkin keyword vocabulary used by
// the lexer. The vocabulary is data, not code, so that adding a language is
// a YAML edit rather than a lexer change — this resolves the Open Question
// on dialect coverage by keeping it small and explicit rather than guessing
// at the full Cucumber dialect table.
package dialect

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed dialects.yaml
var raw []byte

// Dialect is one language's keyword vocabulary. Each field lists every
// surface form recognized for that keyword family, in the order given in
// dialects.yaml; the lexer itself picks the longest match (e.g. "Scenario
// Outline" before "Scenario").
type Dialect struct {
	Name            string
	Feature         []string
	Rule            []string
	Background      []string
	Scenario        []string
	ScenarioOutline []string
	Examples        []string
	Given           []string
	When            []string
	Then            []string
	And             []string
	But             []string
	Star            []string
}

type rawDialect struct {
	Name            string   `yaml:"name"`
	Feature         []string `yaml:"feature"`
	Rule            []string `yaml:"rule"`
	Background      []string `yaml:"background"`
	Scenario        []string `yaml:"scenario"`
	ScenarioOutline []string `yaml:"scenarioOutline"`
	Examples        []string `yaml:"examples"`
	Given           []string `yaml:"given"`
	When            []string `yaml:"when"`
	Then            []string `yaml:"then"`
	And             []string `yaml:"and"`
	But             []string `yaml:"but"`
	Star            []string `yaml:"star"`
}

var table map[string]Dialect

func init() {
	var raws map[string]rawDialect
	if err := yaml.Unmarshal(raw, &raws); err != nil {
		panic(fmt.Sprintf("dialect: invalid embedded dialects.yaml: %v", err))
	}

	table = make(map[string]Dialect, len(raws))
	for code, r := range raws {
		table[code] = Dialect{
			Name:            r.Name,
			Feature:         r.Feature,
			Rule:            r.Rule,
			Background:      r.Background,
			Scenario:        r.Scenario,
			ScenarioOutline: r.ScenarioOutline,
			Examples:        r.Examples,
			Given:           r.Given,
			When:            r.When,
			Then:            r.Then,
			And:             r.And,
			But:             r.But,
			Star:            r.Star,
		}
	}
}

// Default is the dialect used when a source carries no `# language:`
// directive.
const Default = "en"

// Lookup returns the dialect for a language code, falling back to English
// (and reporting false) when the code is not in the embedded table.
func Lookup(code string) (Dialect, bool) {
	if code == "" {
		code = Default
	}
	d, ok := table[code]
	if !ok {
		return table[Default], false
	}
	return d, true
}

// StepKeywords returns every step keyword surface form for a dialect, in
// Given, When, Then, And, But, * order. It does not say which family each
// form belongs to.
func (d Dialect) StepKeywords() []string {
	var all []string
	all = append(all, d.Given...)
	all = append(all, d.When...)
	all = append(all, d.Then...)
	all = append(all, d.And...)
	all = append(all, d.But...)
	all = append(all, d.Star...)
	return all
}
