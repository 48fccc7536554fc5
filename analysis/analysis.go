package analysis

import (
	"context"
	"time"

	"github.com/w-h-a/swimbench/benchmark"
)

// Record is one persisted analysis, identified by request id for audit.
type Record struct {
	Id        string
	SessionId string
	Result    benchmark.AnalysisResult
	CreatedAt time.Time
}

type Store interface {
	Save(ctx context.Context, record Record) error
}
