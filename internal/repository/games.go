package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"

	"github.com/rs/zerolog/log"
)

// GameRepository reads team_game_logs
type GameRepository struct {
	db *Database
}

// LoadGameLog returns the raw game-log rows of the season range ordered by
// date then game id. Each physical game appears once from each side; rows
// are returned unvalidated so the caller can count malformed ones.
func (r *GameRepository) LoadGameLog(ctx context.Context, startSeason, endSeason int) ([]models.GameLogRow, error) {
	start := time.Now()

	query := `
		SELECT game_id, game_date, season, team_id, opponent_id,
		       team_score, opponent_score, game_type
		FROM team_game_logs
		WHERE season BETWEEN $1 AND $2
		ORDER BY game_date, game_id, team_id
	`

	rows, err := r.db.Pool.Query(ctx, query, startSeason, endSeason)
	if err != nil {
		observe("select", "team_game_logs", start, err)
		return nil, fmt.Errorf("failed to load game log: %w", err)
	}
	defer rows.Close()

	var out []models.GameLogRow
	for rows.Next() {
		var g models.GameLogRow
		err := rows.Scan(
			&g.GameID, &g.GameDate, &g.Season, &g.TeamID, &g.OpponentID,
			&g.TeamScore, &g.OpponentScore, &g.GameType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game log row: %w", err)
		}
		out = append(out, g)
	}

	if err := rows.Err(); err != nil {
		observe("select", "team_game_logs", start, err)
		return nil, fmt.Errorf("error iterating game log: %w", err)
	}
	observe("select", "team_game_logs", start, nil)

	log.Debug().
		Int("start_season", startSeason).
		Int("end_season", endSeason).
		Int("rows", len(out)).
		Msg("Game log loaded")

	return out, nil
}

// SeasonAggregate returns a team's run totals for a season. A team without
// games yields a zero aggregate, not an error.
func (r *GameRepository) SeasonAggregate(ctx context.Context, teamID, season int) (models.SeasonAggregate, error) {
	start := time.Now()

	query := `
		SELECT COALESCE(SUM(team_score), 0),
		       COALESCE(SUM(opponent_score), 0),
		       COUNT(*)
		FROM team_game_logs
		WHERE team_id = $1 AND season = $2
		  AND team_score IS NOT NULL AND opponent_score IS NOT NULL
	`

	agg := models.SeasonAggregate{TeamID: teamID, Season: season}
	err := r.db.Pool.QueryRow(ctx, query, teamID, season).Scan(
		&agg.RunsScored, &agg.RunsAllowed, &agg.GamesPlayed,
	)
	observe("select", "team_game_logs", start, err)
	if err != nil {
		return agg, fmt.Errorf("failed to aggregate season %d for team %d: %w", season, teamID, err)
	}

	return agg, nil
}

// SeasonAggregates returns the run totals of every team with games in the season
func (r *GameRepository) SeasonAggregates(ctx context.Context, season int) (map[int]models.SeasonAggregate, error) {
	start := time.Now()

	query := `
		SELECT team_id,
		       COALESCE(SUM(team_score), 0),
		       COALESCE(SUM(opponent_score), 0),
		       COUNT(*)
		FROM team_game_logs
		WHERE season = $1
		  AND team_score IS NOT NULL AND opponent_score IS NOT NULL
		GROUP BY team_id
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		observe("select", "team_game_logs", start, err)
		return nil, fmt.Errorf("failed to aggregate season %d: %w", season, err)
	}
	defer rows.Close()

	out := make(map[int]models.SeasonAggregate)
	for rows.Next() {
		agg := models.SeasonAggregate{Season: season}
		if err := rows.Scan(&agg.TeamID, &agg.RunsScored, &agg.RunsAllowed, &agg.GamesPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		out[agg.TeamID] = agg
	}

	if err := rows.Err(); err != nil {
		observe("select", "team_game_logs", start, err)
		return nil, fmt.Errorf("error iterating aggregates: %w", err)
	}
	observe("select", "team_game_logs", start, nil)

	if len(out) == 0 {
		return nil, &apperrors.DataUnavailableError{
			Resource: fmt.Sprintf("game results for season %d", season),
			Hint:     "load the season's game results first",
		}
	}

	return out, nil
}

// SeasonBounds returns the first and last season present in the game log
func (r *GameRepository) SeasonBounds(ctx context.Context) (first, last int, err error) {
	var lo, hi *int
	err = r.db.Pool.QueryRow(ctx, `SELECT MIN(season), MAX(season) FROM team_game_logs`).Scan(&lo, &hi)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get season bounds: %w", err)
	}
	if lo == nil || hi == nil {
		return 0, 0, &apperrors.DataUnavailableError{Resource: "game log", Hint: "load the season's game results first"}
	}
	return *lo, *hi, nil
}
