package precompute

import (
	"context"
	"fmt"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/metrics"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"

	"github.com/rs/zerolog/log"
)

// PlusStatsStore reads league averages and writes the league-adjusted stats
type PlusStatsStore interface {
	LeagueAverages(ctx context.Context, season int) (models.LeagueAverages, error)
	UpdateOPSPlus(ctx context.Context, season int, leagueOPS float64) (int64, error)
	UpdateERAPlus(ctx context.Context, season int, leagueERA float64) (int64, error)
}

// PlusSummary describes one plus-stats run
type PlusSummary struct {
	Seasons     []int         `json:"seasons"`
	HittersSet  int64         `json:"hitters_updated"`
	PitchersSet int64         `json:"pitchers_updated"`
	Skipped     []int         `json:"seasons_skipped"`
	Duration    time.Duration `json:"duration"`
}

// PlusStats derives ops_plus and era_plus from each season's league averages
type PlusStats struct {
	store PlusStatsStore
}

// NewPlusStats returns a plus-stats job over the store
func NewPlusStats(store PlusStatsStore) *PlusStats {
	return &PlusStats{store: store}
}

// Run updates every season of the range. A stat whose league average is
// missing for a season is left as it is and the season is reported skipped.
func (p *PlusStats) Run(ctx context.Context, opts Options) (*PlusSummary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	summary := &PlusSummary{}

	for season := opts.StartSeason; season <= opts.EndSeason; season++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hitters, pitchers, ok, err := p.season(ctx, season)
		if err != nil {
			metrics.RecordError("plus_stats", apperrors.Kind(err))
			return nil, err
		}
		if !ok {
			summary.Skipped = append(summary.Skipped, season)
			continue
		}
		summary.Seasons = append(summary.Seasons, season)
		summary.HittersSet += hitters
		summary.PitchersSet += pitchers
	}

	summary.Duration = time.Since(start)
	log.Info().
		Ints("seasons", summary.Seasons).
		Ints("skipped", summary.Skipped).
		Int64("hitters", summary.HittersSet).
		Int64("pitchers", summary.PitchersSet).
		Dur("duration", summary.Duration).
		Msg("Plus stats updated")

	return summary, nil
}

// season reports ok=false when neither league average exists
func (p *PlusStats) season(ctx context.Context, season int) (hitters, pitchers int64, ok bool, err error) {
	avg, err := p.store.LeagueAverages(ctx, season)
	if err != nil {
		return 0, 0, false, err
	}

	if avg.OPS.Valid && avg.OPS.Float64 > 0 {
		hitters, err = p.store.UpdateOPSPlus(ctx, season, avg.OPS.Float64)
		if err != nil {
			return 0, 0, false, fmt.Errorf("failed to set ops_plus: %w", err)
		}
		metrics.RecordPlusStats("ops_plus", hitters)
		ok = true
	} else {
		log.Warn().Int("season", season).Msg("No qualified hitters, ops_plus left unchanged")
	}

	if avg.ERA.Valid && avg.ERA.Float64 > 0 {
		pitchers, err = p.store.UpdateERAPlus(ctx, season, avg.ERA.Float64)
		if err != nil {
			return 0, 0, false, fmt.Errorf("failed to set era_plus: %w", err)
		}
		metrics.RecordPlusStats("era_plus", pitchers)
		ok = true
	} else {
		log.Warn().Int("season", season).Msg("No qualified pitchers, era_plus left unchanged")
	}

	return hitters, pitchers, ok, nil
}
