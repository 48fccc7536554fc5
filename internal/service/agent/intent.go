package agent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/w-h-a/swimbench/benchmark"
	"github.com/w-h-a/swimbench/session"
)

type intent int

const (
	intentAnalysis intent = iota
	intentDomainQuestion
	intentOutOfScope
)

// fields holds whatever analysis parameters could be extracted from text.
type fields struct {
	event     benchmark.Event
	hasEvent  bool
	seconds   float64
	hasTime   bool
	age       int
	hasAge    bool
	gender    benchmark.Gender
	hasGender bool
	course    benchmark.Course
	hasCourse bool
}

func (f *fields) merge(other fields) {
	if !f.hasEvent && other.hasEvent {
		f.event, f.hasEvent = other.event, true
	}
	if !f.hasTime && other.hasTime {
		f.seconds, f.hasTime = other.seconds, true
	}
	if !f.hasAge && other.hasAge {
		f.age, f.hasAge = other.age, true
	}
	if !f.hasGender && other.hasGender {
		f.gender, f.hasGender = other.gender, true
	}
	if !f.hasCourse && other.hasCourse {
		f.course, f.hasCourse = other.course, true
	}
}

func (f *fields) missing() []string {
	var missing []string
	if !f.hasEvent {
		missing = append(missing, "event")
	}
	if !f.hasAge {
		missing = append(missing, "age")
	}
	if !f.hasTime {
		missing = append(missing, "time")
	}
	return missing
}

var (
	eventPattern = regexp.MustCompile(`(?i)\b(\d{2,4})[ _-]?(freestyle|free|fr|backstroke|back|bk|breaststroke|breast|br|butterfly|fly|fl|im|medley)\b`)
	timePattern  = regexp.MustCompile(`\b(\d{1,2}:\d{2}(?:\.\d{1,2})?|\d{1,4}\.\d{1,2})\b`)
	agePattern   = regexp.MustCompile(`(?i)\b(?:age|aged|i['’]?m|i am|my son is|my daughter is)\s+(\d{1,2})\b|\b(\d{1,2})\s*(?:years?[ -]old|y/?o)\b`)
	// Single letters stay case-sensitive so "I'm" and "100 Freestyle" don't
	// read as genders.
	malePattern   = regexp.MustCompile(`(?i:\b(male|boy|boys|men|son)\b)|\bM\b`)
	femalePattern = regexp.MustCompile(`(?i:\b(female|girl|girls|women|woman|daughter)\b)|\bF\b`)

	// strongVerbs alone signal an analysis request; weakVerbs only do so when
	// the message also carries at least one extracted field.
	strongVerbs = []string{"analyze", "analyse", "benchmark"}
	weakVerbs   = []string{"rank", "how fast", "qualify", "percentile", "standard"}

	swimmingWords = []string{
		"swim", "stroke", "freestyle", "backstroke", "breaststroke", "butterfly",
		"medley", "kick", "pull", "taper", "meet", "relay", "lap", "pool",
		"dryland", "recruiting", "college", "coach", "training", "drill",
		"streamline", "turn", "dive", "goggles", "usa swimming",
	}
)

// extract pulls analysis fields out of one message.
func extract(message string) fields {
	var f fields

	if m := eventPattern.FindStringSubmatch(message); m != nil {
		if event, err := benchmark.ParseEvent(m[1] + " " + m[2]); err == nil {
			f.event, f.hasEvent = event, true
		}
	}

	// Strip the event text so its distance is not mistaken for a time or age.
	stripped := eventPattern.ReplaceAllString(message, " ")

	if m := timePattern.FindStringSubmatch(stripped); m != nil {
		if seconds, err := benchmark.ParseClockTime(m[1]); err == nil {
			f.seconds, f.hasTime = seconds, true
		}
	}

	if m := agePattern.FindStringSubmatch(stripped); m != nil {
		raw := m[1]
		if len(raw) == 0 {
			raw = m[2]
		}
		if age, err := strconv.Atoi(raw); err == nil && age >= 1 && age <= 18 {
			f.age, f.hasAge = age, true
		}
	}

	if m, err := benchmark.ParseCourse(findCourseToken(stripped)); err == nil {
		f.course, f.hasCourse = m, true
	}

	if femalePattern.MatchString(stripped) {
		f.gender, f.hasGender = benchmark.GenderFemale, true
	} else if malePattern.MatchString(stripped) {
		f.gender, f.hasGender = benchmark.GenderMale, true
	}

	return f
}

func findCourseToken(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "scy") || strings.Contains(lower, "short course yards"):
		return "SCY"
	case strings.Contains(lower, "scm") || strings.Contains(lower, "short course meters"):
		return "SCM"
	case strings.Contains(lower, "lcm") || strings.Contains(lower, "long course"):
		return "LCM"
	}
	return ""
}

// route classifies the turn and resolves fields, consulting recent history so
// a swimmer can supply missing pieces across turns.
func route(message string, history []session.Turn) (intent, fields) {
	f := extract(message)
	lower := strings.ToLower(message)

	hasField := f.hasEvent || f.hasTime || f.hasAge

	analysisSignal := f.hasTime || (f.hasEvent && f.hasAge)
	for _, verb := range strongVerbs {
		if strings.Contains(lower, verb) {
			analysisSignal = true
			break
		}
	}
	if !analysisSignal && hasField {
		for _, verb := range weakVerbs {
			if strings.Contains(lower, verb) {
				analysisSignal = true
				break
			}
		}
	}

	// A bare answer to our own reprompt continues the analysis.
	continuation := awaitingField(history) && (f.hasEvent || f.hasTime || f.hasAge)

	if analysisSignal || continuation {
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].Role != session.RoleUser {
				continue
			}
			f.merge(extract(history[i].Content))
		}
		return intentAnalysis, f
	}

	for _, word := range swimmingWords {
		if strings.Contains(lower, word) {
			return intentDomainQuestion, f
		}
	}

	return intentOutOfScope, f
}

// awaitingField reports whether our previous reply asked for a missing
// analysis parameter.
func awaitingField(history []session.Turn) bool {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != session.RoleAssistant {
			continue
		}
		return strings.Contains(history[i].Content, repromptMarker)
	}
	return false
}
