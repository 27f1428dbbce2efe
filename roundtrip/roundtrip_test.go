package roundtrip_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shiftlefter/shiftlefter/roundtrip"
)

func TestCheckOKOnCleanSource(t *testing.T) {
	src := "Feature: Eating cucumbers\n" +
		"  Scenario: Eating cucumbers\n" +
		"    Given I have 12 cucumbers\n" +
		"    When I eat 5 cucumbers\n" +
		"    Then I should have 7 cucumbers\n"

	res := roundtrip.Check(src, "eating.feature")
	assert.Equal(t, roundtrip.OutcomeOK, res.Outcome)
	assert.Equal(t, len(src), res.OriginalLen)
}

func TestCheckReformatsMessySourceToFixpoint(t *testing.T) {
	messy := "Feature:   Eating cucumbers\n" +
		"        Scenario:Eating cucumbers\n" +
		"   Given I have 12 cucumbers\n"

	res := roundtrip.Check(messy, "messy.feature")
	assert.Equal(t, roundtrip.OutcomeOK, res.Outcome)
	assert.NotEqual(t, messy, res.Reformatted)
}

func TestCheckParseErrorsArePropagated(t *testing.T) {
	src := "Feature: Broken\n" +
		"  Given a\n" +
		"  Given b\n"

	res := roundtrip.Check(src, "broken.feature")
	assert.Equal(t, roundtrip.OutcomeParseErrors, res.Outcome)
	assert.NotEmpty(t, res.ParseErrors)
}
