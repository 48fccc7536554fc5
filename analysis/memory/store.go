package memory

import (
	"context"
	"sync"
	"time"

	"github.com/w-h-a/swimbench/analysis"
)

type Store struct {
	options analysis.Options
	records map[string]analysis.Record
	mtx     sync.RWMutex
}

func (s *Store) Save(ctx context.Context, record analysis.Record) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	s.records[record.Id] = record

	return nil
}

// Records returns a snapshot, for tests.
func (s *Store) Records() []analysis.Record {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	records := make([]analysis.Record, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}

	return records
}

func NewStore(opts ...analysis.Option) *Store {
	return &Store{
		options: analysis.NewOptions(opts...),
		records: map[string]analysis.Record{},
	}
}
