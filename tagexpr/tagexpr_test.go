package tagexpr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftlefter/shiftlefter/tagexpr"
)

func TestEmptyExpressionMatchesEverything(t *testing.T) {
	e, err := tagexpr.Parse("")
	require.NoError(t, err)
	assert.True(t, tagexpr.Match(e, nil))
	assert.True(t, tagexpr.Match(e, []string{"@anything"}))
}

func TestSimpleTagMatch(t *testing.T) {
	e, err := tagexpr.Parse("@smoke")
	require.NoError(t, err)
	assert.True(t, tagexpr.Match(e, []string{"@smoke", "@wip"}))
	assert.False(t, tagexpr.Match(e, []string{"@wip"}))
}

func TestAndNotExpression(t *testing.T) {
	e, err := tagexpr.Parse("@smoke and not @wip")
	require.NoError(t, err)
	assert.True(t, tagexpr.Match(e, []string{"@smoke"}))
	assert.False(t, tagexpr.Match(e, []string{"@smoke", "@wip"}))
	assert.False(t, tagexpr.Match(e, []string{"@wip"}))
}

func TestOrExpression(t *testing.T) {
	e, err := tagexpr.Parse("@a or @b")
	require.NoError(t, err)
	assert.True(t, tagexpr.Match(e, []string{"@a"}))
	assert.True(t, tagexpr.Match(e, []string{"@b"}))
	assert.False(t, tagexpr.Match(e, []string{"@c"}))
}

func TestParenthesizedExpression(t *testing.T) {
	e, err := tagexpr.Parse("(@a or @b) and not @c")
	require.NoError(t, err)
	assert.True(t, tagexpr.Match(e, []string{"@a"}))
	assert.False(t, tagexpr.Match(e, []string{"@a", "@c"}))
}

func TestParseRejectsInvalidTokens(t *testing.T) {
	_, err := tagexpr.Parse("smoke")
	assert.Error(t, err)
}
