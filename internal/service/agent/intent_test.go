package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/w-h-a/swimbench/benchmark"
	"github.com/w-h-a/swimbench/session"
)

func TestExtractPullsAllFields(t *testing.T) {
	f := extract("Benchmark my 100 free, 55.00, age 14, female, SCY")

	assert.True(t, f.hasEvent)
	assert.Equal(t, benchmark.Event100Freestyle, f.event)
	assert.True(t, f.hasTime)
	assert.InDelta(t, 55.00, f.seconds, 0.001)
	assert.True(t, f.hasAge)
	assert.Equal(t, 14, f.age)
	assert.True(t, f.hasGender)
	assert.Equal(t, benchmark.GenderFemale, f.gender)
	assert.True(t, f.hasCourse)
	assert.Equal(t, benchmark.CourseSCY, f.course)
}

func TestExtractDoesNotReadEventDigitsAsAge(t *testing.T) {
	f := extract("how does a 100 freestyle rank?")

	assert.True(t, f.hasEvent)
	assert.False(t, f.hasAge)
	assert.False(t, f.hasTime)
}

func TestExtractClockTime(t *testing.T) {
	f := extract("my son is 16 and swims the 200 fly in 2:05.50")

	assert.True(t, f.hasEvent)
	assert.Equal(t, benchmark.Event200Butterfly, f.event)
	assert.True(t, f.hasTime)
	assert.InDelta(t, 125.50, f.seconds, 0.001)
	assert.True(t, f.hasAge)
	assert.Equal(t, 16, f.age)
	assert.True(t, f.hasGender)
	assert.Equal(t, benchmark.GenderMale, f.gender)
}

func TestExtractIgnoresLowercasePronounContractions(t *testing.T) {
	f := extract("i'm 12 and i swim breaststroke")

	assert.True(t, f.hasAge)
	assert.Equal(t, 12, f.age)
	assert.False(t, f.hasGender)
}

func TestRouteStrongVerbAlone(t *testing.T) {
	turnIntent, _ := route("please analyze my swimming", nil)

	assert.Equal(t, intentAnalysis, turnIntent)
}

func TestRouteWeakVerbNeedsAField(t *testing.T) {
	turnIntent, _ := route("what are USA swimming motivational standards?", nil)
	assert.Equal(t, intentDomainQuestion, turnIntent)

	turnIntent, f := route("what standard is a 55.00?", nil)
	assert.Equal(t, intentAnalysis, turnIntent)
	assert.True(t, f.hasTime)
}

func TestRouteOffTopic(t *testing.T) {
	turnIntent, _ := route("what's the capital of France?", nil)

	assert.Equal(t, intentOutOfScope, turnIntent)
}

func TestRouteContinuationAfterReprompt(t *testing.T) {
	history := []session.Turn{
		{SessionId: "s1", Role: session.RoleUser, Content: "Analyze a 100 free of 55.00 for a girl"},
		{SessionId: "s1", Role: session.RoleAssistant, Content: renderReprompt([]string{"age"})},
	}

	turnIntent, f := route("she is 14 years old", history)

	assert.Equal(t, intentAnalysis, turnIntent)
	assert.True(t, f.hasEvent)
	assert.True(t, f.hasTime)
	assert.True(t, f.hasAge)
	assert.Equal(t, 14, f.age)
	assert.Equal(t, benchmark.GenderFemale, f.gender)
}

func TestRouteBareNumberWithoutRepromptIsNotAnalysis(t *testing.T) {
	turnIntent, _ := route("the pool opens at gate 14", nil)

	assert.Equal(t, intentDomainQuestion, turnIntent)
}
