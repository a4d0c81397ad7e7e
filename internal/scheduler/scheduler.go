package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/cache"
	"github.com/CT-12/Sports-Season-Simulation/internal/config"
	"github.com/CT-12/Sports-Season-Simulation/internal/metrics"
	"github.com/CT-12/Sports-Season-Simulation/internal/precompute"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const jobEloRecompute = "elo_recompute"

// Recomputer rebuilds the Elo history for a season range
type Recomputer interface {
	Run(ctx context.Context, opts precompute.Options) (*precompute.Summary, error)
}

// Scheduler manages background tasks:
// - Nightly Elo recompute over the configured season range
// - Base-state cache invalidation once the recompute succeeds
type Scheduler struct {
	cfg        *config.Config
	recomputer Recomputer
	baseStates *cache.BaseStateCache
	cron       *cron.Cron

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// NewScheduler creates a new scheduler instance. baseStates may be nil when
// nothing is cached.
func NewScheduler(cfg *config.Config, recomputer Recomputer, baseStates *cache.BaseStateCache) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		recomputer: recomputer,
		baseStates: baseStates,
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start schedules the jobs and starts the cron runner
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.EloRecomputeCron, func() {
		if err := s.RecomputeElo(ctx); err != nil {
			log.Error().Err(err).Msg("Nightly Elo recompute failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule Elo recompute: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.EloRecomputeCron).
		Int("start_season", s.cfg.EloStartSeason).
		Int("end_season", s.cfg.EloEndSeason).
		Msg("Elo recompute scheduled")

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

// RecomputeElo rebuilds the configured range and invalidates the base-state
// cache. A cache failure is logged; the recompute itself still counts.
func (s *Scheduler) RecomputeElo(ctx context.Context) error {
	err := s.recomputeElo(ctx)

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		metrics.RecordSchedulerJob(jobEloRecompute, "error")
		return err
	}
	metrics.RecordSchedulerJob(jobEloRecompute, "success")
	return nil
}

func (s *Scheduler) recomputeElo(ctx context.Context) error {
	log.Info().Msg("Running nightly Elo recompute...")

	summary, err := s.recomputer.Run(ctx, precompute.Options{
		StartSeason: s.cfg.EloStartSeason,
		EndSeason:   s.cfg.EloEndSeason,
	})
	if err != nil {
		return fmt.Errorf("elo recompute: %w", err)
	}

	if s.baseStates != nil {
		removed, err := s.baseStates.InvalidateAll(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate base-state cache")
		} else {
			log.Info().Int("keys", removed).Msg("Base-state cache invalidated")
		}
	}

	log.Info().
		Str("run_id", summary.RunID.String()).
		Int("upserted", summary.RatingsUpserted).
		Msg("Nightly Elo recompute complete")
	return nil
}

// LastRun returns when the recompute last ran and its error, if any
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}
