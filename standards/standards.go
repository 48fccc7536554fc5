package standards

import (
	"context"

	"github.com/w-h-a/swimbench/benchmark"
)

// Store is the read-only view of the time standards tables. No write path is
// exposed to callers.
type Store interface {
	Standards(ctx context.Context, query Query) ([]benchmark.StandardEntry, error)
	Recruiting(ctx context.Context, query Query) ([]benchmark.RecruitingThreshold, error)
}

// Query scopes a lookup. AgeGroup is ignored for recruiting cuts. Empty
// fields match every value, which lets the engine do its own age-group
// fallback over the full event slice.
type Query struct {
	Event    benchmark.Event
	Course   benchmark.Course
	Gender   benchmark.Gender
	AgeGroup benchmark.AgeGroup
}
