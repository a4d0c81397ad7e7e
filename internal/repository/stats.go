package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/models"
)

// Qualifying workloads for the league averages behind ops_plus and era_plus
const (
	QualifiedAtBats         = 100
	QualifiedInningsPitched = 50
)

// StatsRepository maintains derived player statistics
type StatsRepository struct {
	db *Database
}

// LeagueAverages returns the season's mean OPS over hitters with at least
// QualifiedAtBats and mean ERA over pitchers with at least
// QualifiedInningsPitched. Either average is invalid when nobody qualified.
func (r *StatsRepository) LeagueAverages(ctx context.Context, season int) (models.LeagueAverages, error) {
	start := time.Now()

	query := `
		SELECT
			(SELECT AVG(ops)::float8 FROM player_hitting_stats
			  WHERE season = $1 AND ab >= $2 AND ops IS NOT NULL),
			(SELECT AVG(era)::float8 FROM player_pitching_stats
			  WHERE season = $1 AND ip >= $3 AND era > 0)
	`

	out := models.LeagueAverages{Season: season}
	err := r.db.Pool.QueryRow(ctx, query, season, QualifiedAtBats, QualifiedInningsPitched).Scan(&out.OPS, &out.ERA)
	observe("select", "player_stats", start, err)
	if err != nil {
		return out, fmt.Errorf("failed to get league averages for %d: %w", season, err)
	}
	return out, nil
}

// UpdateOPSPlus sets ops_plus = 100 * ops / leagueOPS for every hitter of the
// season, clamped to [0, 999]. A NULL or zero OPS leaves ops_plus NULL.
func (r *StatsRepository) UpdateOPSPlus(ctx context.Context, season int, leagueOPS float64) (int64, error) {
	start := time.Now()

	query := `
		UPDATE player_hitting_stats
		SET ops_plus = CASE
			WHEN ops > 0 THEN LEAST(999, GREATEST(0, ROUND(100.0 * ops / $2::numeric)))
			ELSE NULL
		END
		WHERE season = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, season, leagueOPS)
	observe("update", "player_hitting_stats", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to update ops_plus for %d: %w", season, err)
	}
	return tag.RowsAffected(), nil
}

// UpdateERAPlus sets era_plus = 100 * leagueERA / era for every pitcher of
// the season, clamped to [0, 999]. A NULL or zero ERA leaves era_plus NULL.
func (r *StatsRepository) UpdateERAPlus(ctx context.Context, season int, leagueERA float64) (int64, error) {
	start := time.Now()

	query := `
		UPDATE player_pitching_stats
		SET era_plus = CASE
			WHEN era > 0 THEN LEAST(999, GREATEST(0, ROUND(100.0 * $2::numeric / era)))
			ELSE NULL
		END
		WHERE season = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, season, leagueERA)
	observe("update", "player_pitching_stats", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to update era_plus for %d: %w", season, err)
	}
	return tag.RowsAffected(), nil
}
