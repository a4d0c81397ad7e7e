// Command elo-precompute folds the stored game results of a season range into
// the Elo history table, then derives ops_plus and era_plus for the same
// seasons. The range comes from BACKFILL_SEASONS when set, else from
// ELO_START_SEASON..ELO_END_SEASON.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/config"
	"github.com/CT-12/Sports-Season-Simulation/internal/precompute"
	"github.com/CT-12/Sports-Season-Simulation/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	clearRange := flag.Bool("clear", false, "delete the range's existing history before writing")
	seasons := flag.String("seasons", "", `season range to recompute, e.g. "2015-2025" or "2018" (overrides BACKFILL_SEASONS)`)
	skipPlus := flag.Bool("skip-plus-stats", false, "do not derive ops_plus and era_plus")
	flag.Parse()

	setupLogger()
	cfg := config.MustLoad()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := precompute.Options{
		StartSeason: cfg.EloStartSeason,
		EndSeason:   cfg.EloEndSeason,
		Clear:       *clearRange,
	}
	rangeArg := cfg.BackfillSeasons
	if *seasons != "" {
		rangeArg = *seasons
	}
	if rangeArg != "" {
		start, end, err := precompute.ParseSeasonRange(rangeArg)
		if err != nil {
			log.Fatal().Err(err).Str("seasons", rangeArg).Msg("Invalid season range")
		}
		opts.StartSeason, opts.EndSeason = start, end
	}

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// 1. Validate database connectivity
	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	// 2. Make sure the history table exists
	if cfg.RunMigrations {
		if err := db.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	// 3. Fold the range and write it back
	log.Info().
		Int("start_season", opts.StartSeason).
		Int("end_season", opts.EndSeason).
		Bool("clear", opts.Clear).
		Msg("Recomputing Elo history")

	summary, err := precompute.New(db.Games, db.Ratings, cfg.EloParams()).Run(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Elo precompute failed")
	}

	total, err := db.Ratings.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count stored ratings")
	}

	event := log.Info().
		Ints("seasons", summary.Seasons).
		Int("games", summary.GamesFolded).
		Int("skipped", summary.RowsSkipped).
		Int("upserted", summary.RatingsUpserted).
		Int64("deleted", summary.Deleted).
		Int("stored", total)
	if len(summary.Final) > 0 {
		top := summary.Final[0]
		event = event.Int("top_team_id", top.TeamID).Float64("top_rating", top.Rating)
	}
	event.Msg("Elo precompute complete.")

	// 4. League-adjusted player stats for the same seasons
	if *skipPlus {
		return
	}
	plus, err := precompute.NewPlusStats(db.Stats).Run(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Plus stats update failed")
	}
	if len(plus.Skipped) > 0 {
		log.Warn().Ints("seasons", plus.Skipped).Msg("Seasons without qualified players were not adjusted")
	}
}

// setupLogger configures the zerolog logger
func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := zerolog.ParseLevel(lvl); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
}
