package memory

import (
	"context"
	"sync"
	"time"

	"github.com/w-h-a/swimbench/session"
)

type memoryStore struct {
	options session.Options
	turns   map[string][]session.Turn
	mtx     sync.RWMutex
}

func (s *memoryStore) Append(ctx context.Context, turn session.Turn) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	turn.Ordinal = len(s.turns[turn.SessionId])

	s.turns[turn.SessionId] = append(s.turns[turn.SessionId], turn)

	return nil
}

func (s *memoryStore) Recent(ctx context.Context, sessionId string, limit int) ([]session.Turn, error) {
	if limit < 1 {
		limit = session.DefaultWindow
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	history := s.turns[sessionId]
	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	copied := make([]session.Turn, len(history))
	copy(copied, history)

	return copied, nil
}

func NewStore(opts ...session.Option) session.Store {
	return &memoryStore{
		options: session.NewOptions(opts...),
		turns:   map[string][]session.Turn{},
	}
}
