package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
)

func TestKeywordKindString(t *testing.T) {
	assert.Equal(t, "Given", ast.KeywordGiven.String())
	assert.Equal(t, "When", ast.KeywordWhen.String())
	assert.Equal(t, "Then", ast.KeywordThen.String())
	assert.Equal(t, "Unknown", ast.KeywordUnknown.String())
}

func TestScenarioIsOutline(t *testing.T) {
	plain := &ast.Scenario{Kind: ast.ScenarioPlain}
	outline := &ast.Scenario{Kind: ast.ScenarioOutlineKind}

	assert.False(t, plain.IsOutline())
	assert.True(t, outline.IsOutline())
}

func TestChildHoldsExactlyOneMember(t *testing.T) {
	c := ast.Child{Scenario: &ast.Scenario{Name: "s"}}
	assert.NotNil(t, c.Scenario)
	assert.Nil(t, c.Background)
	assert.Nil(t, c.Rule)
}
