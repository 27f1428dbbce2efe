package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
)

func TestTokenizeBasicFeature(t *testing.T) {
	src := "Feature: Eating cucumbers\n" +
		"  Scenario: happy path\n" +
		"    Given I have 12 cucumbers\n" +
		"    When I eat 5 cucumbers\n" +
		"    Then I should have 7 cucumbers\n"

	res := New("eating.feature").Tokenize(src)
	require.NotEmpty(t, res.Tokens)
	assert.Equal(t, "en", res.Language)

	assert.Equal(t, KindFeatureLine, res.Tokens[0].Kind)
	assert.Equal(t, "Eating cucumbers", res.Tokens[0].Name)

	var stepKinds []ast.KeywordKind
	for _, tok := range res.Tokens {
		if tok.Kind == KindStepLine {
			stepKinds = append(stepKinds, tok.StepKind)
		}
	}
	assert.Equal(t, []ast.KeywordKind{ast.KeywordGiven, ast.KeywordWhen, ast.KeywordThen}, stepKinds)

	last := res.Tokens[len(res.Tokens)-1]
	assert.Equal(t, KindEOF, last.Kind)
}

func TestTokenizeLanguageDirective(t *testing.T) {
	src := "# language: fr\n" +
		"Fonctionnalité: Something\n"
	res := New("f.feature").Tokenize(src)
	assert.Equal(t, "fr", res.Language)
	assert.Equal(t, KindFeatureLine, res.Tokens[1].Kind)
}

func TestTokenizeUnterminatedDocString(t *testing.T) {
	src := "Feature: F\n" +
		"  Scenario: S\n" +
		"    Given a doc:\n" +
		"      \"\"\"\n" +
		"      unterminated body\n"

	res := New("d.feature").Tokenize(src)
	var found bool
	for _, tok := range res.Tokens {
		if tok.Kind == KindDocStringDelim {
			found = true
			assert.True(t, tok.Unterminated)
		}
	}
	assert.True(t, found, "expected a doc-string-delim token")
}

func TestTokenizeTableRowEscapes(t *testing.T) {
	src := `Feature: F
  Scenario: S
    Given a table:
      | a\|b | c\\d |
`
	res := New("t.feature").Tokenize(src)
	var cells []string
	for _, tok := range res.Tokens {
		if tok.Kind == KindTableRow {
			cells = tok.Cells
		}
	}
	require.Len(t, cells, 2)
	assert.Equal(t, "a|b", cells[0])
	assert.Equal(t, `c\d`, cells[1])
}

func TestTokenizeTags(t *testing.T) {
	res := New("tg.feature").Tokenize("@smoke @wip\nFeature: F\n")
	require.Equal(t, KindTagLine, res.Tokens[0].Kind)
	assert.Equal(t, []string{"@smoke", "@wip"}, res.Tokens[0].Tags)
}
