package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/Rankboard/internal/backend"
	"github.com/MikeSquared-Agency/Rankboard/internal/metrics"
	"github.com/MikeSquared-Agency/Rankboard/internal/scoring"
	"github.com/MikeSquared-Agency/Rankboard/internal/store"
)

// RunView is everything the run dashboard shows for one method run.
type RunView struct {
	RunID          int64                  `json:"run_id"`
	Scores         scoring.PivotTable     `json:"scores"`
	Headers        []scoring.ColumnHeader `json:"headers"`
	Variants       []scoring.Variant      `json:"variants"`
	Ranking        []scoring.RankEntry    `json:"ranking"`
	Duplicates     scoring.DuplicateMode  `json:"duplicates"`
	ProcessingTime string                 `json:"processing_time,omitempty"`
	CanCompute     bool                   `json:"can_compute"`
	WeightsValid   bool                   `json:"weights_valid"`
	WeightsError   string                 `json:"weights_error,omitempty"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

// CriteriaView is the criterion-score pivot, one criteria_<id> column per
// criterion.
type CriteriaView struct {
	Scores      scoring.PivotTable     `json:"scores"`
	Headers     []scoring.ColumnHeader `json:"headers"`
	WeightTotal float64                `json:"weight_total"`
	GeneratedAt time.Time              `json:"generated_at"`
}

type runSnapshot struct {
	criteria  []backend.Criterion
	products  []backend.Product
	scores    []backend.ScoreRecord
	finals    []backend.FinalScoreRecord
	fetchedAt time.Time
}

type criteriaSnapshot struct {
	criteria  []backend.Criterion
	products  []backend.Product
	scores    []backend.ScoreRecord
	fetchedAt time.Time
}

// canCompute is false once a run has both scores and final scores.
func (snap *runSnapshot) canCompute() bool {
	return len(snap.scores) == 0 || len(snap.finals) == 0
}

func (s *Service) runSnapshot(ctx context.Context, runID int64) (*runSnapshot, error) {
	key := runKey{runID: runID, scope: scopeOf(ctx)}

	s.mu.Lock()
	if snap, ok := s.runs[key]; ok && s.fresh(snap.fetchedAt) {
		s.mu.Unlock()
		metrics.ViewCacheHits.WithLabelValues("run").Inc()
		return snap, nil
	}
	gen, epoch := s.runGen[runID], s.epoch
	s.mu.Unlock()

	snap := &runSnapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.criteria, err = s.backend.ListCriteria(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.products, err = s.backend.ListProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.scores, err = s.backend.ListScores(gctx, runID)
		return err
	})
	g.Go(func() (err error) {
		snap.finals, err = s.backend.ListFinalScores(gctx, runID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load run %d: %w", runID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap.fetchedAt = s.now()
	metrics.ViewBuilds.WithLabelValues("run").Inc()

	s.mu.Lock()
	stale := s.runGen[runID] != gen || s.epoch != epoch
	if !stale && s.cfg.CacheTTL() > 0 {
		s.runs[key] = snap
	} else if stale {
		s.logger.Debug("discarding stale run snapshot", "run_id", runID)
	}
	s.mu.Unlock()
	return snap, nil
}

func (s *Service) criteriaSnapshot(ctx context.Context) (*criteriaSnapshot, error) {
	scope := scopeOf(ctx)

	s.mu.Lock()
	if snap, ok := s.criteria[scope]; ok && s.fresh(snap.fetchedAt) {
		s.mu.Unlock()
		metrics.ViewCacheHits.WithLabelValues("criteria").Inc()
		return snap, nil
	}
	gen, epoch := s.criteriaGen, s.epoch
	s.mu.Unlock()

	snap := &criteriaSnapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.criteria, err = s.backend.ListCriteria(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.products, err = s.backend.ListProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.scores, err = s.backend.ListCriteriaScores(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load criteria scores: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap.fetchedAt = s.now()
	metrics.ViewBuilds.WithLabelValues("criteria").Inc()

	s.mu.Lock()
	if s.criteriaGen == gen && s.epoch == epoch && s.cfg.CacheTTL() > 0 {
		s.criteria[scope] = snap
	}
	s.mu.Unlock()
	return snap, nil
}

// View returns the full run dashboard using the configured duplicate mode.
func (s *Service) View(ctx context.Context, runID int64) (*RunView, error) {
	snap, err := s.runSnapshot(ctx, runID)
	if err != nil {
		return nil, err
	}

	productNames := backend.ProductNames(snap.products)
	table := scoring.Pivot(snap.scores, productNames)
	metrics.PivotRows.WithLabelValues("run").Observe(float64(len(table.Rows)))

	v := &RunView{
		RunID:       runID,
		Scores:      table,
		Headers:     table.Headers(backend.CriteriaNames(snap.criteria)),
		Variants:    table.Variants(),
		Ranking:     scoring.WithRanks(scoring.Rank(snap.finals, productNames, s.duplicates)),
		Duplicates:  s.duplicates,
		CanCompute:  snap.canCompute(),
		GeneratedAt: snap.fetchedAt,
	}
	if err := scoring.ValidateWeights(snap.criteria); err != nil {
		v.WeightsError = err.Error()
	} else {
		v.WeightsValid = true
	}
	if s.store != nil {
		t, err := s.store.LatestTiming(ctx, runID)
		if err != nil {
			s.logger.Warn("failed to load processing time", "run_id", runID, "error", err)
		} else if t != nil {
			v.ProcessingTime = t.ProcessingTime
		}
	}
	return v, nil
}

// Scores returns only the pivoted score table of a run.
func (s *Service) Scores(ctx context.Context, runID int64) (scoring.PivotTable, []scoring.ColumnHeader, error) {
	snap, err := s.runSnapshot(ctx, runID)
	if err != nil {
		return scoring.PivotTable{}, nil, err
	}
	table := scoring.Pivot(snap.scores, backend.ProductNames(snap.products))
	return table, table.Headers(backend.CriteriaNames(snap.criteria)), nil
}

// Ranking returns the final-score ranking of a run. An empty mode uses the
// configured one.
func (s *Service) Ranking(ctx context.Context, runID int64, mode scoring.DuplicateMode) ([]scoring.RankEntry, error) {
	snap, err := s.runSnapshot(ctx, runID)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = s.duplicates
	}
	return scoring.WithRanks(scoring.Rank(snap.finals, backend.ProductNames(snap.products), mode)), nil
}

// CriteriaScores returns the criterion-score pivot.
func (s *Service) CriteriaScores(ctx context.Context) (*CriteriaView, error) {
	snap, err := s.criteriaSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	table := scoring.Pivot(snap.scores, backend.ProductNames(snap.products))
	metrics.PivotRows.WithLabelValues("criteria").Observe(float64(len(table.Rows)))
	return &CriteriaView{
		Scores:      table,
		Headers:     table.Headers(backend.CriteriaNames(snap.criteria)),
		WeightTotal: scoring.WeightTotal(snap.criteria),
		GeneratedAt: snap.fetchedAt,
	}, nil
}

func (s *Service) Methods(ctx context.Context) ([]backend.Method, error) {
	return s.backend.ListMethods(ctx)
}

// Report fetches the period report of a run and numbers its rows.
func (s *Service) Report(ctx context.Context, runID int64, period string) ([]scoring.ReportEntry, error) {
	rows, err := s.backend.Report(ctx, runID, period)
	if err != nil {
		return nil, fmt.Errorf("report run %d: %w", runID, err)
	}
	return scoring.RankReport(rows), nil
}

// Timings lists the processing times recorded for a run since its scores were
// last finalized, oldest first.
func (s *Service) Timings(ctx context.Context, runID int64) ([]*store.Timing, error) {
	if s.store == nil {
		return []*store.Timing{}, nil
	}
	timings, err := s.store.ListTimings(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list timings for run %d: %w", runID, err)
	}
	if timings == nil {
		timings = []*store.Timing{}
	}
	return timings, nil
}
