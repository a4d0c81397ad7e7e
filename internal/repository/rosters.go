package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"

	"github.com/rs/zerolog/log"
)

// RosterRepository reads players and their season statistics
type RosterRepository struct {
	db *Database
}

// Snapshot returns every active player of the season grouped by team name,
// with the hitting and pitching lines that exist for each player.
func (r *RosterRepository) Snapshot(ctx context.Context, season int) (models.SimulationState, error) {
	start := time.Now()

	query := `
		SELECT t.team_name, p.player_id, p.player_name, p.position_name, p.position_type,
		       phs.avg, phs.ops, phs.ops_plus, phs.hr, phs.rbi, phs.r, phs.h, phs.obp, phs.slg,
		       pps.era, pps.era_plus, pps.whip, pps.so, pps.w, pps.l, pps.bb
		FROM teams t
		JOIN players p ON t.team_id = p.current_team_id
			AND t.season = p.season
		LEFT JOIN player_hitting_stats phs ON p.player_id = phs.player_id
			AND p.season = phs.season
		LEFT JOIN player_pitching_stats pps ON p.player_id = pps.player_id
			AND p.season = pps.season
		WHERE t.season = $1
		ORDER BY t.team_name, p.player_name
	`

	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		observe("select", "players", start, err)
		return nil, fmt.Errorf("failed to query roster snapshot: %w", err)
	}
	defer rows.Close()

	state := make(models.SimulationState)
	for rows.Next() {
		var row models.PlayerStatRow
		err := rows.Scan(
			&row.TeamName, &row.PlayerID, &row.PlayerName, &row.PositionName, &row.PositionType,
			&row.Avg, &row.OPS, &row.OPSPlus, &row.HR, &row.RBI, &row.R, &row.H, &row.OBP, &row.SLG,
			&row.ERA, &row.ERAPlus, &row.WHIP, &row.SO, &row.W, &row.L, &row.BB,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		state[row.TeamName] = append(state[row.TeamName], row.ToPlayerRecord())
	}

	if err := rows.Err(); err != nil {
		observe("select", "players", start, err)
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	observe("select", "players", start, nil)

	if len(state) == 0 {
		return nil, &apperrors.DataUnavailableError{
			Resource: fmt.Sprintf("player statistics for season %d", season),
			Hint:     "load the season's rosters first",
		}
	}

	log.Info().
		Int("season", season).
		Int("teams", state.TeamCount()).
		Int("players", state.PlayerCount()).
		Msg("Serialized roster snapshot")

	return state, nil
}

// Roster returns a team's players ordered pitchers, catchers, infielders,
// outfielders, then the rest
func (r *RosterRepository) Roster(ctx context.Context, teamID, season int) ([]models.RosterPlayer, error) {
	start := time.Now()

	query := `
		SELECT player_id, player_name, COALESCE(position_name, 'N/A')
		FROM players
		WHERE current_team_id = $1 AND season = $2
		ORDER BY
			CASE position_type
				WHEN 'Pitcher' THEN 1
				WHEN 'Catcher' THEN 2
				WHEN 'Infielder' THEN 3
				WHEN 'Outfielder' THEN 4
				ELSE 5
			END,
			position_name,
			player_name
	`

	rows, err := r.db.Pool.Query(ctx, query, teamID, season)
	if err != nil {
		observe("select", "players", start, err)
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	players := []models.RosterPlayer{}
	for rows.Next() {
		var p models.RosterPlayer
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan roster player: %w", err)
		}
		players = append(players, p)
	}

	if err := rows.Err(); err != nil {
		observe("select", "players", start, err)
		return nil, fmt.Errorf("error iterating roster: %w", err)
	}
	observe("select", "players", start, nil)

	return players, nil
}
