package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Rankboard/internal/backend"
	"github.com/MikeSquared-Agency/Rankboard/internal/config"
	"github.com/MikeSquared-Agency/Rankboard/internal/hermes"
	"github.com/MikeSquared-Agency/Rankboard/internal/scoring"
	"github.com/MikeSquared-Agency/Rankboard/internal/store"
)

// Service builds dashboard views from backend data and runs the commands
// that change it. Raw upstream records are cached per run and caller scope;
// every command invalidates the affected entries so the next read refetches.
type Service struct {
	backend    backend.Client
	hermes     hermes.Client
	store      store.Store
	cfg        *config.Config
	logger     *slog.Logger
	origin     string
	duplicates scoring.DuplicateMode
	now        func() time.Time

	mu          sync.Mutex
	runs        map[runKey]*runSnapshot
	criteria    map[string]*criteriaSnapshot
	runGen      map[int64]uint64
	criteriaGen uint64
	// epoch is bumped by InvalidateAll so builds of runs that had nothing
	// cached yet are dropped too.
	epoch uint64

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

type runKey struct {
	runID int64
	scope string
}

func New(b backend.Client, h hermes.Client, s store.Store, cfg *config.Config, logger *slog.Logger) *Service {
	mode, err := scoring.ParseDuplicateMode(cfg.Views.FinalScoreDuplicates)
	if err != nil {
		logger.Warn("invalid final_score_duplicates, using first", "value", cfg.Views.FinalScoreDuplicates)
		mode = scoring.DuplicatesFirst
	}
	return &Service{
		backend:    b,
		hermes:     h,
		store:      s,
		cfg:        cfg,
		logger:     logger,
		origin:     uuid.NewString(),
		duplicates: mode,
		now:        time.Now,
		runs:       make(map[runKey]*runSnapshot),
		criteria:   make(map[string]*criteriaSnapshot),
		runGen:     make(map[int64]uint64),
		stopCh:     make(chan struct{}),
	}
}

// Origin identifies this instance on published events.
func (s *Service) Origin() string { return s.origin }

// DuplicateMode is the configured final-score duplicate handling.
func (s *Service) DuplicateMode() scoring.DuplicateMode { return s.duplicates }

func (s *Service) Start(ctx context.Context) {
	if s.cfg.CacheTTL() <= 0 {
		return
	}
	s.wg.Add(1)
	go s.sweepLoop(ctx)
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// Invalidate drops every cached snapshot of runID and bumps its generation,
// so builds already in flight are not written back.
func (s *Service) Invalidate(runID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runGen[runID]++
	for k := range s.runs {
		if k.runID == runID {
			delete(s.runs, k)
		}
	}
}

// InvalidateCriteria drops every cached criterion-score snapshot.
func (s *Service) InvalidateCriteria() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteriaGen++
	s.criteria = make(map[string]*criteriaSnapshot)
}

// InvalidateAll drops the whole cache.
func (s *Service) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.runs = make(map[runKey]*runSnapshot)
	s.criteriaGen++
	s.criteria = make(map[string]*criteriaSnapshot)
}

func (s *Service) fresh(fetchedAt time.Time) bool {
	ttl := s.cfg.CacheTTL()
	return ttl > 0 && s.now().Sub(fetchedAt) < ttl
}

// scopeOf keys the cache by caller token so one caller's data is never
// served on another caller's credentials.
func scopeOf(ctx context.Context) string {
	tok := backend.TokenFrom(ctx)
	if tok == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:8])
}

func (s *Service) sweepLoop(ctx context.Context) {
	defer s.wg.Done()
	interval := s.cfg.CacheTTL()
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for k, snap := range s.runs {
		if !s.fresh(snap.fetchedAt) {
			delete(s.runs, k)
			evicted++
		}
	}
	for k, snap := range s.criteria {
		if !s.fresh(snap.fetchedAt) {
			delete(s.criteria, k)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Debug("evicted expired views", "count", evicted)
	}
}

func (s *Service) publish(subject string, evt interface{}) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(subject, evt); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
