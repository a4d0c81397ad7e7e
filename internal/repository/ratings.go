package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultEloRating is returned by LatestOrDefault when a team has no history
var DefaultEloRating = decimal.NewFromInt(1500)

// upsertChunk bounds the number of rows sent in one batch
const upsertChunk = 1000

// RatingRepository handles team_elo_history operations
type RatingRepository struct {
	db *Database
}

const upsertRatingQuery = `
	INSERT INTO team_elo_history (team_id, date, season, rating, is_season_start)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (team_id, date) DO UPDATE SET
		season = EXCLUDED.season,
		rating = EXCLUDED.rating,
		is_season_start = EXCLUDED.is_season_start,
		updated_at = NOW()
`

// UpsertBatch writes entries in one transaction. Rows are keyed by
// (team_id, date); an existing row takes the new rating and season-start flag.
func (r *RatingRepository) UpsertBatch(ctx context.Context, entries []models.RatingEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	start := time.Now()

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	written, err := upsertRatings(ctx, tx, entries)
	if err != nil {
		observe("upsert", "team_elo_history", start, err)
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		observe("upsert", "team_elo_history", start, err)
		return 0, fmt.Errorf("failed to commit ratings: %w", err)
	}
	observe("upsert", "team_elo_history", start, nil)

	log.Debug().Int("rows", written).Dur("duration", time.Since(start)).Msg("Elo history upserted")

	return written, nil
}

// ReplaceSeasons deletes the history of the season range and writes entries
// in the same transaction. On any failure the stored history is unchanged.
func (r *RatingRepository) ReplaceSeasons(ctx context.Context, startSeason, endSeason int, entries []models.RatingEntry) (int64, int, error) {
	start := time.Now()

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM team_elo_history WHERE season BETWEEN $1 AND $2`, startSeason, endSeason)
	if err != nil {
		observe("replace", "team_elo_history", start, err)
		return 0, 0, fmt.Errorf("failed to delete ratings: %w", err)
	}

	written, err := upsertRatings(ctx, tx, entries)
	if err != nil {
		observe("replace", "team_elo_history", start, err)
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		observe("replace", "team_elo_history", start, err)
		return 0, 0, fmt.Errorf("failed to commit ratings: %w", err)
	}
	observe("replace", "team_elo_history", start, nil)

	log.Debug().
		Int64("deleted", tag.RowsAffected()).
		Int("rows", written).
		Dur("duration", time.Since(start)).
		Msg("Elo history replaced")

	return tag.RowsAffected(), written, nil
}

// upsertRatings sends entries through tx in chunks of upsertChunk
func upsertRatings(ctx context.Context, tx pgx.Tx, entries []models.RatingEntry) (int, error) {
	written := 0
	for lo := 0; lo < len(entries); lo += upsertChunk {
		hi := min(lo+upsertChunk, len(entries))

		batch := &pgx.Batch{}
		for _, e := range entries[lo:hi] {
			batch.Queue(upsertRatingQuery, e.TeamID, e.Date, e.Season, e.Rating, e.IsSeasonStart)
		}

		results := tx.SendBatch(ctx, batch)
		for i := lo; i < hi; i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return 0, fmt.Errorf("failed to upsert rating for team %d on %s: %w",
					entries[i].TeamID, entries[i].Date.Format("2006-01-02"), err)
			}
			written++
		}
		if err := results.Close(); err != nil {
			return 0, fmt.Errorf("failed to close batch: %w", err)
		}
	}
	return written, nil
}

// Latest returns the most recent entry dated on or before onOrBefore,
// optionally restricted to one season
func (r *RatingRepository) Latest(ctx context.Context, teamID int, onOrBefore time.Time, season *int) (*models.RatingEntry, error) {
	start := time.Now()

	query := `
		SELECT team_id, date, season, rating, is_season_start
		FROM team_elo_history
		WHERE team_id = $1 AND date <= $2
		  AND ($3::int IS NULL OR season = $3)
		ORDER BY date DESC
		LIMIT 1
	`

	var e models.RatingEntry
	err := r.db.Pool.QueryRow(ctx, query, teamID, onOrBefore, season).Scan(
		&e.TeamID, &e.Date, &e.Season, &e.Rating, &e.IsSeasonStart,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		observe("select", "team_elo_history", start, nil)
		return nil, apperrors.NewEloUnavailable(fmt.Sprintf("Elo rating for team %d on or before %s",
			teamID, onOrBefore.Format("2006-01-02")))
	}
	observe("select", "team_elo_history", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest rating: %w", err)
	}

	return &e, nil
}

// LatestOrDefault returns the latest rating, or DefaultEloRating without history
func (r *RatingRepository) LatestOrDefault(ctx context.Context, teamID int, onOrBefore time.Time, season *int) (decimal.Decimal, error) {
	e, err := r.Latest(ctx, teamID, onOrBefore, season)
	if apperrors.IsDataUnavailable(err) {
		return DefaultEloRating, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return e.Rating, nil
}

// SeasonRange summarises a team's ratings within a season
func (r *RatingRepository) SeasonRange(ctx context.Context, teamID, season int) (*models.SeasonRatingRange, error) {
	start := time.Now()

	query := `
		SELECT MIN(rating), MAX(rating), AVG(rating)::numeric(8,4),
		       (ARRAY_AGG(rating ORDER BY date ASC))[1],
		       (ARRAY_AGG(rating ORDER BY date DESC))[1]
		FROM team_elo_history
		WHERE team_id = $1 AND season = $2
		HAVING COUNT(*) > 0
	`

	out := models.SeasonRatingRange{TeamID: teamID, Season: season}
	err := r.db.Pool.QueryRow(ctx, query, teamID, season).Scan(
		&out.Min, &out.Max, &out.Avg, &out.SeasonStart, &out.SeasonEnd,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		observe("select", "team_elo_history", start, nil)
		return nil, apperrors.NewEloUnavailable(fmt.Sprintf("Elo history for team %d in %d", teamID, season))
	}
	observe("select", "team_elo_history", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating range: %w", err)
	}

	return &out, nil
}

// Count returns the number of stored entries
func (r *RatingRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM team_elo_history`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}
