package benchmark

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var strokeAliases = map[string]string{
	"freestyle":    "freestyle",
	"free":         "freestyle",
	"fr":           "freestyle",
	"backstroke":   "backstroke",
	"back":         "backstroke",
	"bk":           "backstroke",
	"breaststroke": "breaststroke",
	"breast":       "breaststroke",
	"br":           "breaststroke",
	"butterfly":    "butterfly",
	"fly":          "butterfly",
	"fl":           "butterfly",
	"im":           "im",
	"medley":       "im",
}

var eventPattern = regexp.MustCompile(`^(\d+)[ _-]*([a-z]+)$`)

// ParseEvent resolves canonical names like "100_freestyle" as well as common
// shorthand such as "100 free" or "200IM".
func ParseEvent(raw string) (Event, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	m := eventPattern.FindStringSubmatch(normalized)
	if m == nil {
		return "", &UnknownEventError{Input: raw}
	}

	stroke, ok := strokeAliases[m[2]]
	if !ok {
		return "", &UnknownEventError{Input: raw}
	}

	candidate := Event(m[1] + "_" + stroke)
	for _, ev := range Events {
		if ev == candidate {
			return ev, nil
		}
	}

	return "", &UnknownEventError{Input: raw}
}

func ParseCourse(raw string) (Course, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SCY":
		return CourseSCY, nil
	case "SCM":
		return CourseSCM, nil
	case "LCM":
		return CourseLCM, nil
	}
	return "", fmt.Errorf("unknown course %q: expected SCY, SCM, or LCM", raw)
}

func ParseGender(raw string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "M", "MALE", "BOY", "BOYS", "MEN":
		return GenderMale, nil
	case "F", "FEMALE", "GIRL", "GIRLS", "WOMEN":
		return GenderFemale, nil
	}
	return "", fmt.Errorf("unknown gender %q: expected M or F", raw)
}

// ParseClockTime accepts MM:SS.SS or SS.SS and returns seconds.
func ParseClockTime(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, ErrInvalidTime
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}

	var minutes float64
	if len(parts) == 2 {
		m, err := strconv.ParseFloat(parts[0], 64)
		if err != nil || m < 0 || m != math.Trunc(m) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
		}
		minutes = m
	}

	seconds, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || seconds < 0 || (len(parts) == 2 && seconds >= 60) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}

	total := minutes*60 + seconds
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}

	return total, nil
}

// FormatSeconds renders seconds as MM:SS.SS above a minute, SS.SS below.
func FormatSeconds(seconds float64) string {
	if seconds >= 60 {
		minutes := int(seconds) / 60
		return fmt.Sprintf("%d:%05.2f", minutes, seconds-float64(minutes)*60)
	}
	return fmt.Sprintf("%.2f", seconds)
}

// AgeGroupForAge maps a swimmer's age onto the fixed USA Swimming bands.
func AgeGroupForAge(age int) (AgeGroup, error) {
	switch {
	case age < 1 || age > 18:
		return "", fmt.Errorf("%w: got %d", ErrInvalidAge, age)
	case age <= 10:
		return AgeGroup10Under, nil
	case age <= 12:
		return AgeGroup11to12, nil
	case age <= 14:
		return AgeGroup13to14, nil
	case age <= 16:
		return AgeGroup15to16, nil
	default:
		return AgeGroup17to18, nil
	}
}
