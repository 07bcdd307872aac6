package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Timing is the processing time the backend reported for one SMART/MOORA
// computation of a run. It lives until the run's scores are finalized.
type Timing struct {
	ID             uuid.UUID `json:"id"`
	RunID          int64     `json:"run_id"`
	Method         string    `json:"method"`
	ProcessingTime string    `json:"processing_time"`
	CreatedAt      time.Time `json:"created_at"`
}

type Store interface {
	RecordTiming(ctx context.Context, t *Timing) error
	// LatestTiming returns the newest timing for a run, or nil if none is
	// recorded.
	LatestTiming(ctx context.Context, runID int64) (*Timing, error)
	ListTimings(ctx context.Context, runID int64) ([]*Timing, error)
	ClearTimings(ctx context.Context, runID int64) error

	Close() error
}
