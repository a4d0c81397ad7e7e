//go:build integration

package repository

import (
	"testing"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func rating(teamID int, date string, season int, value string, seasonStart bool) models.RatingEntry {
	return models.RatingEntry{
		TeamID:        teamID,
		Date:          day(date),
		Season:        season,
		Rating:        decimal.RequireFromString(value),
		IsSeasonStart: seasonStart,
	}
}

func TestRatingRepository_UpsertBatchIsIdempotent(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	entries := []models.RatingEntry{
		rating(147, "2024-03-28", 2024, "1510.0000", true),
		rating(147, "2024-03-29", 2024, "1519.8123", false),
	}

	n, err := db.Ratings.UpsertBatch(ctx, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries[1].Rating = decimal.RequireFromString("1490.1000")
	_, err = db.Ratings.UpsertBatch(ctx, entries)
	require.NoError(t, err)

	count, err := db.Ratings.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "Rows are keyed by team and date")

	latest, err := db.Ratings.Latest(ctx, 147, day("2024-12-31"), nil)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1490.1").Equal(latest.Rating))
}

func TestRatingRepository_Latest(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Ratings.UpsertBatch(ctx, []models.RatingEntry{
		rating(147, "2023-09-30", 2023, "1580.0000", false),
		rating(147, "2024-03-28", 2024, "1560.0000", true),
		rating(147, "2024-04-15", 2024, "1571.2500", false),
	})
	require.NoError(t, err)

	e, err := db.Ratings.Latest(ctx, 147, day("2024-04-01"), nil)
	require.NoError(t, err)
	assert.True(t, e.IsSeasonStart)

	season := 2023
	e, err = db.Ratings.Latest(ctx, 147, day("2024-12-31"), &season)
	require.NoError(t, err)
	assert.Equal(t, 2023, e.Season)

	_, err = db.Ratings.Latest(ctx, 111, day("2024-12-31"), nil)
	require.True(t, apperrors.IsDataUnavailable(err))
	assert.Contains(t, err.Error(), apperrors.EloPrecomputeHint)

	r, err := db.Ratings.LatestOrDefault(ctx, 111, day("2024-12-31"), nil)
	require.NoError(t, err)
	assert.True(t, DefaultEloRating.Equal(r))
}

func TestRatingRepository_SeasonRange(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Ratings.UpsertBatch(ctx, []models.RatingEntry{
		rating(147, "2024-03-28", 2024, "1500.0000", true),
		rating(147, "2024-05-01", 2024, "1540.0000", false),
		rating(147, "2024-09-29", 2024, "1520.0000", false),
	})
	require.NoError(t, err)

	rng, err := db.Ratings.SeasonRange(ctx, 147, 2024)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(rng.Min))
	assert.True(t, decimal.NewFromInt(1540).Equal(rng.Max))
	assert.True(t, decimal.NewFromInt(1520).Equal(rng.Avg))
	assert.True(t, decimal.NewFromInt(1500).Equal(rng.SeasonStart))
	assert.True(t, decimal.NewFromInt(1520).Equal(rng.SeasonEnd))

	_, err = db.Ratings.SeasonRange(ctx, 147, 2019)
	assert.True(t, apperrors.IsDataUnavailable(err))

	deleted, written, err := db.Ratings.ReplaceSeasons(ctx, 2024, 2024, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Zero(t, written)
}

func TestRatingRepository_ReplaceSeasons(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Ratings.UpsertBatch(ctx, []models.RatingEntry{
		rating(147, "2023-09-30", 2023, "1580.0000", false),
		rating(147, "2024-03-28", 2024, "1560.0000", true),
		rating(147, "2024-04-15", 2024, "1571.2500", false),
	})
	require.NoError(t, err)

	deleted, written, err := db.Ratings.ReplaceSeasons(ctx, 2024, 2024, []models.RatingEntry{
		rating(147, "2024-03-28", 2024, "1555.0000", true),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 1, written)

	count, err := db.Ratings.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "Seasons outside the range are kept")
}

func TestRatingRepository_ReplaceSeasonsRollsBackOnFailure(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Ratings.UpsertBatch(ctx, []models.RatingEntry{
		rating(147, "2024-03-28", 2024, "1560.0000", true),
		rating(147, "2024-04-15", 2024, "1571.2500", false),
	})
	require.NoError(t, err)

	// NUMERIC(8,4) cannot hold six integer digits, so the write fails after
	// the delete has run inside the transaction
	_, _, err = db.Ratings.ReplaceSeasons(ctx, 2024, 2024, []models.RatingEntry{
		rating(147, "2024-03-28", 2024, "1500.0000", true),
		rating(147, "2024-04-15", 2024, "123456.0000", false),
	})
	require.Error(t, err)

	count, err := db.Ratings.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "The stored history survives a failed replace")

	latest, err := db.Ratings.Latest(ctx, 147, day("2024-12-31"), nil)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1571.25").Equal(latest.Rating))
}
