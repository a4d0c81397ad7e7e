// Package precompute rebuilds the persisted Elo history from the game log.
package precompute

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/elo"
	"github.com/CT-12/Sports-Season-Simulation/internal/metrics"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// GameLoader reads raw game-log rows for a season range
type GameLoader interface {
	LoadGameLog(ctx context.Context, startSeason, endSeason int) ([]models.GameLogRow, error)
}

// RatingWriter persists Elo history. ReplaceSeasons deletes the range and
// writes the entries atomically.
type RatingWriter interface {
	UpsertBatch(ctx context.Context, entries []models.RatingEntry) (int, error)
	ReplaceSeasons(ctx context.Context, startSeason, endSeason int, entries []models.RatingEntry) (int64, int, error)
}

// Options selects the seasons to recompute
type Options struct {
	StartSeason int
	EndSeason   int
	// Clear deletes the range's stored history before writing
	Clear bool
}

// TeamRating is a team's rating after the last folded game
type TeamRating struct {
	TeamID int     `json:"team_id"`
	Rating float64 `json:"rating"`
}

// Summary describes one precompute run
type Summary struct {
	RunID           uuid.UUID     `json:"run_id"`
	StartSeason     int           `json:"start_season"`
	EndSeason       int           `json:"end_season"`
	Seasons         []int         `json:"seasons"`
	GamesFolded     int           `json:"games_folded"`
	RowsSkipped     int           `json:"rows_skipped"`
	RatingsUpserted int           `json:"ratings_upserted"`
	Deleted         int64         `json:"deleted"`
	Final           []TeamRating  `json:"final_ratings"`
	Duration        time.Duration `json:"duration"`
}

// EloPrecompute folds the game log of a season range and upserts the history
type EloPrecompute struct {
	games   GameLoader
	ratings RatingWriter
	engine  *elo.Engine
}

// New returns a precompute over the given stores
func New(games GameLoader, ratings RatingWriter, params elo.Params) *EloPrecompute {
	return &EloPrecompute{
		games:   games,
		ratings: ratings,
		engine:  elo.NewEngine(params),
	}
}

// Run recomputes the range. Ratings start from the initial rating at the
// first season of the range. Failures are recorded as a failed run.
func (p *EloPrecompute) Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()

	summary, err := p.run(ctx, opts)
	if err != nil {
		metrics.RecordEloPrecompute("error", time.Since(start).Seconds(), 0, 0, 0)
		metrics.RecordError("precompute", apperrors.Kind(err))
		return nil, err
	}

	summary.Duration = time.Since(start)
	metrics.RecordEloPrecompute("success", summary.Duration.Seconds(),
		summary.GamesFolded, summary.RowsSkipped, summary.RatingsUpserted)

	log.Info().
		Str("run_id", summary.RunID.String()).
		Int("start_season", opts.StartSeason).
		Int("end_season", opts.EndSeason).
		Int("games", summary.GamesFolded).
		Int("skipped", summary.RowsSkipped).
		Int("upserted", summary.RatingsUpserted).
		Dur("duration", summary.Duration).
		Msg("Elo precompute completed")

	return summary, nil
}

func (p *EloPrecompute) run(ctx context.Context, opts Options) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rows, err := p.games.LoadGameLog(ctx, opts.StartSeason, opts.EndSeason)
	if err != nil {
		return nil, fmt.Errorf("failed to load game log: %w", err)
	}
	if len(rows) == 0 {
		return nil, &apperrors.DataUnavailableError{
			Resource: fmt.Sprintf("game results for seasons %d-%d", opts.StartSeason, opts.EndSeason),
			Hint:     "load the season's game results first",
		}
	}

	games, malformed := elo.FromRows(rows)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := p.engine.Fold(games)

	summary := &Summary{
		RunID:       uuid.New(),
		StartSeason: opts.StartSeason,
		EndSeason:   opts.EndSeason,
		Seasons:     result.Seasons,
		GamesFolded: result.Processed,
		RowsSkipped: malformed + result.Skipped,
		Final:       finalRatings(result.Final),
	}

	if opts.Clear {
		deleted, upserted, err := p.ratings.ReplaceSeasons(ctx, opts.StartSeason, opts.EndSeason, result.History.Entries())
		if err != nil {
			return nil, fmt.Errorf("failed to replace stored history: %w", err)
		}
		summary.Deleted = deleted
		summary.RatingsUpserted = upserted
		log.Info().Int64("rows", deleted).Msg("Replaced stored Elo history")
		return summary, nil
	}

	upserted, err := p.ratings.UpsertBatch(ctx, result.History.Entries())
	if err != nil {
		return nil, fmt.Errorf("failed to store Elo history: %w", err)
	}
	summary.RatingsUpserted = upserted

	return summary, nil
}

// Validate checks the season range
func (o Options) Validate() error {
	if o.StartSeason <= 0 {
		return apperrors.NewMissingField("start_season")
	}
	if o.EndSeason < o.StartSeason {
		return &apperrors.ValidationError{
			Field:  "end_season",
			Value:  strconv.Itoa(o.EndSeason),
			Reason: fmt.Sprintf("must not be before start season %d", o.StartSeason),
		}
	}
	return nil
}

// ParseSeasonRange reads "2015-2025" or a single "2018"
func ParseSeasonRange(s string) (start, end int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, apperrors.NewMissingField("seasons")
	}

	lo, hi, isRange := strings.Cut(s, "-")
	start, err = strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, &apperrors.ValidationError{Field: "seasons", Value: s, Reason: "expected YYYY or YYYY-YYYY"}
	}
	end = start
	if isRange {
		end, err = strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return 0, 0, &apperrors.ValidationError{Field: "seasons", Value: s, Reason: "expected YYYY or YYYY-YYYY"}
		}
	}

	if err := (Options{StartSeason: start, EndSeason: end}).Validate(); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// finalRatings lists the table highest first, ties by team id
func finalRatings(table *elo.RatingTable) []TeamRating {
	snap := table.Snapshot()
	out := make([]TeamRating, 0, len(snap))
	for id, r := range snap {
		out = append(out, TeamRating{TeamID: id, Rating: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}
