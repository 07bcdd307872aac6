package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Rankboard/internal/hermes"
	"github.com/MikeSquared-Agency/Rankboard/internal/metrics"
	"github.com/MikeSquared-Agency/Rankboard/internal/store"
)

var (
	// ErrComputeLocked is returned when a run already has both scores and
	// final scores.
	ErrComputeLocked = errors.New("run already has scores and final scores")
	ErrUnknownMethod = errors.New("unknown method")
)

const (
	MethodSMART = "SMART"
	MethodMOORA = "MOORA"
)

// ParseMethod normalizes a method name to its upstream spelling.
func ParseMethod(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case MethodSMART:
		return MethodSMART, nil
	case MethodMOORA:
		return MethodMOORA, nil
	}
	return "", fmt.Errorf("%w %q (want SMART or MOORA)", ErrUnknownMethod, s)
}

// Compute runs a SMART or MOORA computation for runID upstream, records the
// reported processing time and returns the rebuilt view.
func (s *Service) Compute(ctx context.Context, runID int64, method string) (*RunView, error) {
	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}

	snap, err := s.runSnapshot(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !snap.canCompute() {
		return nil, ErrComputeLocked
	}

	res, err := s.backend.Compute(ctx, runID, m)
	if err != nil {
		metrics.Computations.WithLabelValues(m, "error").Inc()
		return nil, fmt.Errorf("compute %s for run %d: %w", m, runID, err)
	}
	metrics.Computations.WithLabelValues(m, "ok").Inc()
	s.logger.Info("computation finished", "run_id", runID, "method", m, "processing_time", res.ProcessingTime)

	if s.store != nil && res.ProcessingTime != "" {
		if err := s.store.RecordTiming(ctx, &store.Timing{
			RunID:          runID,
			Method:         m,
			ProcessingTime: res.ProcessingTime,
		}); err != nil {
			s.logger.Warn("failed to record processing time", "run_id", runID, "error", err)
		}
	}

	s.Invalidate(runID)
	s.publish(hermes.SubjectRunComputed(runID), hermes.RunComputedEvent{
		EventID:        uuid.New(),
		RunID:          runID,
		Method:         m,
		ProcessingTime: res.ProcessingTime,
		Origin:         s.origin,
		Timestamp:      s.now(),
	})
	return s.View(ctx, runID)
}

// Finalize saves the run's final scores upstream and forgets its processing
// time.
func (s *Service) Finalize(ctx context.Context, runID int64) (*RunView, error) {
	if err := s.backend.SaveFinalScores(ctx, runID); err != nil {
		return nil, fmt.Errorf("finalize run %d: %w", runID, err)
	}
	if s.store != nil {
		if err := s.store.ClearTimings(ctx, runID); err != nil {
			s.logger.Warn("failed to clear processing time", "run_id", runID, "error", err)
		}
	}
	s.logger.Info("final scores saved", "run_id", runID)

	s.Invalidate(runID)
	s.publish(hermes.SubjectRunFinalized(runID), hermes.RunFinalizedEvent{
		EventID:   uuid.New(),
		RunID:     runID,
		Origin:    s.origin,
		Timestamp: s.now(),
	})
	return s.View(ctx, runID)
}

// Refresh discards the cached run data and rebuilds the view.
func (s *Service) Refresh(ctx context.Context, runID int64) (*RunView, error) {
	s.Invalidate(runID)
	s.publish(hermes.SubjectRunRefreshed(runID), hermes.RunRefreshedEvent{
		EventID:   uuid.New(),
		RunID:     runID,
		Origin:    s.origin,
		Timestamp: s.now(),
	})
	return s.View(ctx, runID)
}

func (s *Service) ComputeCriteriaScores(ctx context.Context) (*CriteriaView, error) {
	if err := s.backend.ComputeCriteriaScores(ctx); err != nil {
		return nil, fmt.Errorf("compute criteria scores: %w", err)
	}
	return s.criteriaUpdated(ctx, "compute")
}

func (s *Service) RecomputeCriteriaScores(ctx context.Context) (*CriteriaView, error) {
	if err := s.backend.RecomputeCriteriaScores(ctx); err != nil {
		return nil, fmt.Errorf("recompute criteria scores: %w", err)
	}
	return s.criteriaUpdated(ctx, "recompute")
}

func (s *Service) criteriaUpdated(ctx context.Context, action string) (*CriteriaView, error) {
	s.InvalidateCriteria()
	s.publish(hermes.SubjectCriteriaScores, hermes.CriteriaScoresUpdatedEvent{
		EventID:   uuid.New(),
		Action:    action,
		Origin:    s.origin,
		Timestamp: s.now(),
	})
	return s.CriteriaScores(ctx)
}
