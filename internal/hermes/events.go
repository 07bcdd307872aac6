package hermes

import (
	"time"

	"github.com/google/uuid"
)

type RunComputedEvent struct {
	EventID        uuid.UUID `json:"event_id"`
	RunID          int64     `json:"run_id"`
	Method         string    `json:"method"`
	ProcessingTime string    `json:"processing_time,omitempty"`
	Origin         string    `json:"origin"`
	Timestamp      time.Time `json:"timestamp"`
}

type RunFinalizedEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	RunID     int64     `json:"run_id"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

type RunRefreshedEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	RunID     int64     `json:"run_id"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

type CriteriaScoresUpdatedEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	Action    string    `json:"action"` // compute | recompute
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}
