package benchmark

// Event is one of the 13 recognized race distances/strokes.
type Event string

const (
	Event50Freestyle     Event = "50_freestyle"
	Event100Freestyle    Event = "100_freestyle"
	Event200Freestyle    Event = "200_freestyle"
	Event500Freestyle    Event = "500_freestyle"
	Event1650Freestyle   Event = "1650_freestyle"
	Event100Backstroke   Event = "100_backstroke"
	Event200Backstroke   Event = "200_backstroke"
	Event100Breaststroke Event = "100_breaststroke"
	Event200Breaststroke Event = "200_breaststroke"
	Event100Butterfly    Event = "100_butterfly"
	Event200Butterfly    Event = "200_butterfly"
	Event200IM           Event = "200_im"
	Event400IM           Event = "400_im"
)

// Events is the full vocabulary, in the order it is reported back to users.
var Events = []Event{
	Event50Freestyle,
	Event100Freestyle,
	Event200Freestyle,
	Event500Freestyle,
	Event1650Freestyle,
	Event100Backstroke,
	Event200Backstroke,
	Event100Breaststroke,
	Event200Breaststroke,
	Event100Butterfly,
	Event200Butterfly,
	Event200IM,
	Event400IM,
}

// Course is the pool configuration.
type Course string

const (
	CourseSCY Course = "SCY"
	CourseSCM Course = "SCM"
	CourseLCM Course = "LCM"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// AgeGroup is one of the 5 USA Swimming competitive age bands.
type AgeGroup string

const (
	AgeGroup10Under AgeGroup = "10-under"
	AgeGroup11to12  AgeGroup = "11-12"
	AgeGroup13to14  AgeGroup = "13-14"
	AgeGroup15to16  AgeGroup = "15-16"
	AgeGroup17to18  AgeGroup = "17-18"
)

// AgeGroups is ordered youngest to oldest; index distance is band distance.
var AgeGroups = []AgeGroup{
	AgeGroup10Under,
	AgeGroup11to12,
	AgeGroup13to14,
	AgeGroup15to16,
	AgeGroup17to18,
}

// Level is a USA Swimming motivational standard, weakest to strongest.
type Level string

const (
	LevelB    Level = "B"
	LevelBB   Level = "BB"
	LevelA    Level = "A"
	LevelAA   Level = "AA"
	LevelAAA  Level = "AAA"
	LevelAAAA Level = "AAAA"

	// LevelNone marks a time slower than every threshold on record.
	LevelNone Level = "none"
)

var Levels = []Level{LevelB, LevelBB, LevelA, LevelAA, LevelAAA, LevelAAAA}

var levelRank = map[Level]int{
	LevelB:    0,
	LevelBB:   1,
	LevelA:    2,
	LevelAA:   3,
	LevelAAA:  4,
	LevelAAAA: 5,
}

// levelPercentile anchors each standard level to a national percentile.
// Percentiles between adjacent levels are linearly interpolated by time.
var levelPercentile = map[Level]float64{
	LevelB:    10,
	LevelBB:   25,
	LevelA:    45,
	LevelAA:   65,
	LevelAAA:  85,
	LevelAAAA: 98,
}

// AbilityTier maps a standard level onto the coarser coaching vocabulary.
func (l Level) AbilityTier() string {
	switch l {
	case LevelAAAA:
		return "Elite"
	case LevelAAA:
		return "Advanced"
	case LevelAA, LevelA:
		return "Intermediate"
	case LevelBB:
		return "Novice"
	default:
		return "Beginner"
	}
}

// Division is an NCAA-style recruiting tier.
type Division string

const (
	DivisionD1Elite    Division = "D1-Elite"
	DivisionD1MidMajor Division = "D1-MidMajor"
	DivisionD2         Division = "D2"
	DivisionD3         Division = "D3"
)

var Divisions = []Division{DivisionD1Elite, DivisionD1MidMajor, DivisionD2, DivisionD3}

// StandardEntry is one motivational time standard row. Immutable once loaded.
type StandardEntry struct {
	Event    Event
	Course   Course
	Gender   Gender
	AgeGroup AgeGroup
	Level    Level
	Seconds  float64
}

// RecruitingThreshold is one college recruiting cut.
type RecruitingThreshold struct {
	Event    Event
	Course   Course
	Gender   Gender
	Division Division
	Seconds  float64
}

// NextGoal describes the next stricter standard above the swimmer's current level.
type NextGoal struct {
	TargetLevel   Level
	TargetSeconds float64
	SecondsToDrop float64

	// AtTopLevel is set when there is no higher level to chase.
	AtTopLevel bool
}

// AnalysisResult is the outcome of one benchmarking computation. Never mutated.
type AnalysisResult struct {
	InputSeconds float64
	Event        Event
	Course       Course
	Gender       Gender

	// AgeGroupUsed may differ from the group implied by the requested age
	// when no rows existed for the exact band; Fallback records that.
	AgeGroupUsed AgeGroup
	Fallback     bool

	Percentile    float64
	StandardLevel Level
	AbilityTier   string
	Recruiting    map[Division]bool
	NextGoal      NextGoal
}

// Input holds the caller-resolved parameters for one analysis.
type Input struct {
	Seconds float64
	Event   Event
	Age     int
	Gender  Gender
	Course  Course
}
