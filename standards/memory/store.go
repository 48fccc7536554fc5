package memory

import (
	"context"
	"sync"

	"github.com/w-h-a/swimbench/benchmark"
	"github.com/w-h-a/swimbench/standards"
)

type memoryStore struct {
	options    standards.Options
	entries    []benchmark.StandardEntry
	recruiting []benchmark.RecruitingThreshold
	mtx        sync.RWMutex
}

func (s *memoryStore) Standards(ctx context.Context, query standards.Query) ([]benchmark.StandardEntry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var matched []benchmark.StandardEntry
	for _, entry := range s.entries {
		if !matches(query, entry.Event, entry.Course, entry.Gender) {
			continue
		}
		if len(query.AgeGroup) > 0 && entry.AgeGroup != query.AgeGroup {
			continue
		}
		matched = append(matched, entry)
	}

	return matched, nil
}

func (s *memoryStore) Recruiting(ctx context.Context, query standards.Query) ([]benchmark.RecruitingThreshold, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var matched []benchmark.RecruitingThreshold
	for _, threshold := range s.recruiting {
		if !matches(query, threshold.Event, threshold.Course, threshold.Gender) {
			continue
		}
		matched = append(matched, threshold)
	}

	return matched, nil
}

func matches(query standards.Query, event benchmark.Event, course benchmark.Course, gender benchmark.Gender) bool {
	if len(query.Event) > 0 && event != query.Event {
		return false
	}
	if len(query.Course) > 0 && course != query.Course {
		return false
	}
	if len(query.Gender) > 0 && gender != query.Gender {
		return false
	}
	return true
}

func NewStore(opts ...standards.Option) standards.Store {
	options := standards.NewOptions(opts...)

	return &memoryStore{
		options:    options,
		entries:    append([]benchmark.StandardEntry(nil), options.Entries...),
		recruiting: append([]benchmark.RecruitingThreshold(nil), options.Recruiting...),
	}
}
