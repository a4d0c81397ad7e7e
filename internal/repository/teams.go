package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"

	"github.com/jackc/pgx/v5"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// Upsert inserts a team season row, renaming it if it already exists
func (r *TeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (team_id, season, team_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, season) DO UPDATE SET
			team_name = EXCLUDED.team_name
	`

	start := time.Now()
	_, err := r.db.Pool.Exec(ctx, query, team.TeamID, team.Season, team.Name)
	observe("upsert", "teams", start, err)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

// GetByName retrieves a team by exact name within a season
func (r *TeamRepository) GetByName(ctx context.Context, name string, season int) (*models.Team, error) {
	query := `
		SELECT team_id, team_name, season
		FROM teams
		WHERE team_name = $1 AND season = $2
	`

	start := time.Now()
	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, name, season).Scan(&team.TeamID, &team.Name, &team.Season)
	if errors.Is(err, pgx.ErrNoRows) {
		observe("select", "teams", start, nil)
		return nil, &apperrors.NotFoundError{Entity: "team", Name: name, Scope: "season " + strconv.Itoa(season)}
	}
	observe("select", "teams", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// GetByID retrieves a team season row by id
func (r *TeamRepository) GetByID(ctx context.Context, teamID, season int) (*models.Team, error) {
	query := `
		SELECT team_id, team_name, season
		FROM teams
		WHERE team_id = $1 AND season = $2
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, teamID, season).Scan(&team.TeamID, &team.Name, &team.Season)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &apperrors.NotFoundError{Entity: "team", Name: strconv.Itoa(teamID), Scope: "season " + strconv.Itoa(season)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// List retrieves the teams of a season ordered by name
func (r *TeamRepository) List(ctx context.Context, season int) ([]models.Team, error) {
	query := `
		SELECT team_id, team_name, season
		FROM teams
		WHERE season = $1
		ORDER BY team_name
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, season)
	if err != nil {
		observe("select", "teams", start, err)
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.TeamID, &team.Name, &team.Season); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		observe("select", "teams", start, err)
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}
	observe("select", "teams", start, nil)

	return teams, nil
}

// LatestSeason returns the most recent season with teams
func (r *TeamRepository) LatestSeason(ctx context.Context) (int, error) {
	var season *int
	if err := r.db.Pool.QueryRow(ctx, `SELECT MAX(season) FROM teams`).Scan(&season); err != nil {
		return 0, fmt.Errorf("failed to get latest season: %w", err)
	}
	if season == nil {
		return 0, &apperrors.DataUnavailableError{Resource: "teams", Hint: "load team data first"}
	}
	return *season, nil
}
