//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests for database operations
// Run with: go test -v -tags=integration ./internal/repository/...

func setupTestDB(t *testing.T) (*Database, context.Context) {
	ctx := context.Background()

	cfg := Config{
		Host:     "localhost",
		Port:     "5432",
		Database: "mlbsim_test",
		User:     "mlbsim_user",
		Password: "mlbsim_password",
		SSLMode:  "disable",
	}

	db, err := NewDatabase(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.Migrate(ctx), "Failed to migrate test database")

	_, err = db.Pool.Exec(ctx, `
		TRUNCATE team_elo_history, team_game_logs, player_hitting_stats,
		         player_pitching_stats, players, teams
	`)
	require.NoError(t, err, "Failed to clean test database")

	return db, ctx
}

func teardownTestDB(t *testing.T, db *Database) {
	db.Close()
}

func insertGame(t *testing.T, db *Database, ctx context.Context, gameID int64, date string, season, team, opp, teamScore, oppScore int) {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	query := `
		INSERT INTO team_game_logs (team_id, season, game_id, game_date, game_type, opponent_id, team_score, opponent_score)
		VALUES ($1, $2, $3, $4, 'R', $5, $6, $7)
	`
	_, err = db.Pool.Exec(ctx, query, team, season, gameID, d, opp, teamScore, oppScore)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, query, opp, season, gameID, d, team, oppScore, teamScore)
	require.NoError(t, err)
}

func TestDatabaseConnection(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Health(ctx)
	assert.NoError(t, err, "Database health check should pass")

	stats := db.PoolStats()
	assert.NotNil(t, stats, "Should return connection pool stats")
	assert.GreaterOrEqual(t, stats["max_conns"].(int32), int32(1), "Should have at least 1 max connection")
}

func TestDatabaseMigrateIsIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	assert.NoError(t, db.Migrate(ctx), "Second migration run should be a no-op")
}
