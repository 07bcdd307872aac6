//go:build integration

package store

import (
	"context"
	"os"
	"testing"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE rankboard_timings")
		s.Close()
	})

	return s
}

func TestRecordAndLatestTiming(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	timing := &Timing{RunID: 42, Method: "SMART", ProcessingTime: "1.5 s"}
	if err := s.RecordTiming(ctx, timing); err != nil {
		t.Fatalf("RecordTiming: %v", err)
	}
	if timing.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := s.LatestTiming(ctx, 42)
	if err != nil {
		t.Fatalf("LatestTiming: %v", err)
	}
	if got == nil || got.ID != timing.ID || got.ProcessingTime != "1.5 s" {
		t.Errorf("expected %+v, got %+v", timing, got)
	}

	list, err := s.ListTimings(ctx, 42)
	if err != nil {
		t.Fatalf("ListTimings: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 timing, got %d", len(list))
	}
}

func TestClearTimings(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	_ = s.RecordTiming(ctx, &Timing{RunID: 7, Method: "MOORA", ProcessingTime: "0.3 s"})
	if err := s.ClearTimings(ctx, 7); err != nil {
		t.Fatalf("ClearTimings: %v", err)
	}

	got, err := s.LatestTiming(ctx, 7)
	if err != nil {
		t.Fatalf("LatestTiming: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after clear, got %+v", got)
	}
}

func TestLatestTimingMissing(t *testing.T) {
	s := setupTestDB(t)
	got, err := s.LatestTiming(context.Background(), 999)
	if err != nil {
		t.Fatalf("LatestTiming: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}
