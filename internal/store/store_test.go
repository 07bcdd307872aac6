package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryStoreLatestTiming(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	s.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
	ctx := context.Background()

	if got, err := s.LatestTiming(ctx, 1); err != nil || got != nil {
		t.Fatalf("expected nil timing, got %+v (err=%v)", got, err)
	}

	first := &Timing{RunID: 1, Method: "SMART", ProcessingTime: "1.2 s"}
	if err := s.RecordTiming(ctx, first); err != nil {
		t.Fatalf("record: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
	if err := s.RecordTiming(ctx, &Timing{RunID: 1, Method: "MOORA", ProcessingTime: "0.8 s"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.RecordTiming(ctx, &Timing{RunID: 2, Method: "SMART", ProcessingTime: "3 s"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	latest, err := s.LatestTiming(ctx, 1)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.Method != "MOORA" || latest.ProcessingTime != "0.8 s" {
		t.Errorf("expected MOORA 0.8 s, got %+v", latest)
	}

	all, _ := s.ListTimings(ctx, 1)
	if len(all) != 2 {
		t.Errorf("expected 2 timings for run 1, got %d", len(all))
	}
}

func TestMemoryStoreClearTimings(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.RecordTiming(ctx, &Timing{RunID: 1, Method: "SMART", ProcessingTime: "1 s"})
	_ = s.RecordTiming(ctx, &Timing{RunID: 2, Method: "SMART", ProcessingTime: "2 s"})

	if err := s.ClearTimings(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if got, _ := s.LatestTiming(ctx, 1); got != nil {
		t.Errorf("expected run 1 to be cleared, got %+v", got)
	}
	if got, _ := s.LatestTiming(ctx, 2); got == nil {
		t.Error("expected run 2 to be untouched")
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.RecordTiming(ctx, &Timing{RunID: 1, Method: "SMART", ProcessingTime: "1 s"})

	got, _ := s.LatestTiming(ctx, 1)
	got.ProcessingTime = "mutated"

	again, _ := s.LatestTiming(ctx, 1)
	if again.ProcessingTime != "1 s" {
		t.Errorf("store state leaked through returned pointer: %q", again.ProcessingTime)
	}
}
