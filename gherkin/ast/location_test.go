package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shiftlefter/shiftlefter/gherkin/ast"
)

func TestLocationStringWithColumn(t *testing.T) {
	loc := ast.Location{File: "a.feature", Line: 3, Column: 5}
	assert.Equal(t, "a.feature:3:5", loc.String())
}

func TestLocationStringWithoutColumn(t *testing.T) {
	loc := ast.Location{File: "a.feature", Line: 3}
	assert.Equal(t, "a.feature:3", loc.String())
}

func TestLocationIsZero(t *testing.T) {
	assert.True(t, ast.Location{}.IsZero())
	assert.False(t, ast.Location{Line: 1}.IsZero())
	assert.False(t, ast.Location{Column: 1}.IsZero())
}
