package session

import (
	"context"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Turn is one exchange entry. Append-only; past turns are never rewritten.
type Turn struct {
	SessionId string
	Role      string
	Content   string
	Timestamp time.Time
	Ordinal   int
}

// Store persists conversation history. Recent returns the newest turns capped
// to limit, ordered oldest first; the cap is a read-side window, not a delete.
type Store interface {
	Append(ctx context.Context, turn Turn) error
	Recent(ctx context.Context, sessionId string, limit int) ([]Turn, error)
}

// DefaultWindow is how many turns of history feed a reply by default.
const DefaultWindow = 15
