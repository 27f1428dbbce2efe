package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftlefter/shiftlefter/gherkin/dialect"
)

func TestLookupKnownDialects(t *testing.T) {
	en, ok := dialect.Lookup("en")
	require.True(t, ok)
	assert.Contains(t, en.Feature, "Feature")

	fr, ok := dialect.Lookup("fr")
	require.True(t, ok)
	assert.Contains(t, fr.Feature, "Fonctionnalité")
}

func TestLookupUnknownDialectFails(t *testing.T) {
	_, ok := dialect.Lookup("xx-not-a-real-dialect")
	assert.False(t, ok)
}

func TestStepKeywordsCoversAllCategories(t *testing.T) {
	en, _ := dialect.Lookup(dialect.Default)
	kws := en.StepKeywords()
	assert.Contains(t, kws, "Given")
	assert.Contains(t, kws, "When")
	assert.Contains(t, kws, "Then")
	assert.Contains(t, kws, "And")
}
