//go:build integration

package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepository_PlusStats(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO player_hitting_stats (player_id, season, ab, ops) VALUES
			(1, 2024, 500, 0.900),
			(2, 2024, 450, 0.700),
			(3, 2024, 40, 1.500),
			(4, 2024, 300, NULL),
			(5, 2023, 500, 0.800)
	`)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO player_pitching_stats (player_id, season, ip, era) VALUES
			(10, 2024, 180.0, 3.00),
			(11, 2024, 60.1, 5.00),
			(12, 2024, 12.0, 9.00),
			(13, 2024, 20.0, 0.00)
	`)
	require.NoError(t, err)

	avg, err := db.Stats.LeagueAverages(ctx, 2024)
	require.NoError(t, err)
	require.True(t, avg.OPS.Valid)
	assert.InDelta(t, 0.8, avg.OPS.Float64, 1e-9, "Only qualified hitters count")
	require.True(t, avg.ERA.Valid)
	assert.InDelta(t, 4.0, avg.ERA.Float64, 1e-9, "Only qualified pitchers count")

	n, err := db.Stats.UpdateOPSPlus(ctx, 2024, avg.OPS.Float64)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = db.Stats.UpdateERAPlus(ctx, 2024, avg.ERA.Float64)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	opsPlus := func(id int) sql.NullFloat64 {
		var v sql.NullFloat64
		require.NoError(t, db.Pool.QueryRow(ctx,
			`SELECT ops_plus::float8 FROM player_hitting_stats WHERE player_id = $1`, id).Scan(&v))
		return v
	}
	eraPlus := func(id int) sql.NullFloat64 {
		var v sql.NullFloat64
		require.NoError(t, db.Pool.QueryRow(ctx,
			`SELECT era_plus::float8 FROM player_pitching_stats WHERE player_id = $1`, id).Scan(&v))
		return v
	}

	assert.Equal(t, 113.0, opsPlus(1).Float64)
	assert.Equal(t, 88.0, opsPlus(2).Float64)
	assert.Equal(t, 188.0, opsPlus(3).Float64, "Unqualified hitters are still rated")
	assert.False(t, opsPlus(4).Valid, "NULL OPS leaves ops_plus NULL")
	assert.False(t, opsPlus(5).Valid, "Other seasons are untouched")

	assert.Equal(t, 133.0, eraPlus(10).Float64)
	assert.Equal(t, 80.0, eraPlus(11).Float64)
	assert.Equal(t, 44.0, eraPlus(12).Float64)
	assert.False(t, eraPlus(13).Valid, "Zero ERA leaves era_plus NULL")
}

func TestStatsRepository_LeagueAveragesWithoutQualifiers(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO player_hitting_stats (player_id, season, ab, ops) VALUES (1, 2024, 20, 0.900)
	`)
	require.NoError(t, err)

	avg, err := db.Stats.LeagueAverages(ctx, 2024)
	require.NoError(t, err)
	assert.False(t, avg.OPS.Valid)
	assert.False(t, avg.ERA.Valid)
}
