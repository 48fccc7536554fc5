package benchmark

import (
	"fmt"
	"math"
	"sort"
)

// Analyze benchmarks one swim against the supplied standards snapshot. It is
// pure: identical inputs against an unchanged snapshot produce an identical
// result.
func Analyze(in Input, standards []StandardEntry, recruiting []RecruitingThreshold) (AnalysisResult, error) {
	if !knownEvent(in.Event) {
		return AnalysisResult{}, &UnknownEventError{Input: string(in.Event)}
	}

	if in.Seconds <= 0 || math.IsInf(in.Seconds, 0) || math.IsNaN(in.Seconds) {
		return AnalysisResult{}, fmt.Errorf("%w: got %v", ErrInvalidTime, in.Seconds)
	}

	gender := in.Gender
	if len(gender) == 0 {
		gender = GenderMale
	}

	course := in.Course
	if len(course) == 0 {
		course = CourseSCY
	}

	requested, err := AgeGroupForAge(in.Age)
	if err != nil {
		return AnalysisResult{}, err
	}

	rows, resolved, fallback, err := resolveAgeGroup(in.Event, course, gender, requested, standards)
	if err != nil {
		return AnalysisResult{}, err
	}

	level := standardLevel(in.Seconds, rows)

	result := AnalysisResult{
		InputSeconds:  in.Seconds,
		Event:         in.Event,
		Course:        course,
		Gender:        gender,
		AgeGroupUsed:  resolved,
		Fallback:      fallback,
		Percentile:    percentile(in.Seconds, rows),
		StandardLevel: level,
		AbilityTier:   level.AbilityTier(),
		Recruiting:    qualify(in.Seconds, in.Event, course, gender, recruiting),
		NextGoal:      nextGoal(in.Seconds, level, rows),
	}

	return result, nil
}

func knownEvent(event Event) bool {
	for _, ev := range Events {
		if ev == event {
			return true
		}
	}
	return false
}

// resolveAgeGroup returns the standards rows for the requested band, falling
// back to the nearest band by absolute distance when the exact band has no
// rows. Ties prefer the younger band.
func resolveAgeGroup(event Event, course Course, gender Gender, requested AgeGroup, standards []StandardEntry) ([]StandardEntry, AgeGroup, bool, error) {
	byGroup := map[AgeGroup][]StandardEntry{}
	for _, row := range standards {
		if row.Event != event || row.Course != course || row.Gender != gender {
			continue
		}
		byGroup[row.AgeGroup] = append(byGroup[row.AgeGroup], row)
	}

	if rows := byGroup[requested]; len(rows) > 0 {
		return sortByLevel(rows), requested, false, nil
	}

	requestedIdx := groupIndex(requested)
	bestIdx := -1
	for i, group := range AgeGroups {
		if len(byGroup[group]) == 0 {
			continue
		}
		if bestIdx == -1 || abs(i-requestedIdx) < abs(bestIdx-requestedIdx) {
			bestIdx = i
		}
	}

	if bestIdx == -1 {
		return nil, "", false, fmt.Errorf("%w: event=%s course=%s gender=%s", ErrStandardsUnavailable, event, course, gender)
	}

	group := AgeGroups[bestIdx]
	return sortByLevel(byGroup[group]), group, true, nil
}

func sortByLevel(rows []StandardEntry) []StandardEntry {
	sorted := append([]StandardEntry(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool {
		return levelRank[sorted[i].Level] < levelRank[sorted[j].Level]
	})
	return sorted
}

// standardLevel is the highest level whose threshold is not faster than the
// input time. Equality qualifies.
func standardLevel(seconds float64, rows []StandardEntry) Level {
	level := LevelNone
	for _, row := range rows {
		if row.Seconds >= seconds {
			level = row.Level
		}
	}
	return level
}

// percentile interpolates linearly between the anchors of the two levels
// bounding the input time, clamping beyond the fastest and slowest thresholds.
func percentile(seconds float64, rows []StandardEntry) float64 {
	if len(rows) == 0 {
		return 0
	}

	weakest := rows[0]
	strongest := rows[len(rows)-1]

	if seconds >= weakest.Seconds {
		return levelPercentile[weakest.Level]
	}
	if seconds <= strongest.Seconds {
		return levelPercentile[strongest.Level]
	}

	for i := 0; i < len(rows)-1; i++ {
		lower, upper := rows[i], rows[i+1]
		if seconds > upper.Seconds && seconds <= lower.Seconds {
			span := lower.Seconds - upper.Seconds
			if span <= 0 {
				return levelPercentile[upper.Level]
			}
			frac := (lower.Seconds - seconds) / span
			lo := levelPercentile[lower.Level]
			hi := levelPercentile[upper.Level]
			return lo + frac*(hi-lo)
		}
	}

	return levelPercentile[weakest.Level]
}

func qualify(seconds float64, event Event, course Course, gender Gender, recruiting []RecruitingThreshold) map[Division]bool {
	qual := map[Division]bool{}
	for _, row := range recruiting {
		if row.Event != event || row.Course != course || row.Gender != gender {
			continue
		}
		qual[row.Division] = seconds <= row.Seconds
	}
	return qual
}

func nextGoal(seconds float64, current Level, rows []StandardEntry) NextGoal {
	currentRank := -1
	if current != LevelNone {
		currentRank = levelRank[current]
	}

	for _, row := range rows {
		if levelRank[row.Level] > currentRank {
			drop := seconds - row.Seconds
			if drop < 0 {
				drop = 0
			}
			return NextGoal{
				TargetLevel:   row.Level,
				TargetSeconds: row.Seconds,
				SecondsToDrop: drop,
			}
		}
	}

	return NextGoal{TargetLevel: current, AtTopLevel: true}
}

func groupIndex(group AgeGroup) int {
	for i, g := range AgeGroups {
		if g == group {
			return i
		}
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
