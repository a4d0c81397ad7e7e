// Command forecast runs the season models against the stored data and writes
// the result as JSON to stdout.
//
//	forecast [season] [-method Elo] [-mode independent] [-base 2024]
//	forecast matchup -method Elo "New York Yankees" "Boston Red Sox"
//	forecast series "New York Yankees" "Boston Red Sox"
//	forecast interval -team "Boston Red Sox"
//	forecast rank -hitter ops -pitcher era
//	forecast whatif -hitter ops -pitcher era -trades trades.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/cache"
	"github.com/CT-12/Sports-Season-Simulation/internal/config"
	"github.com/CT-12/Sports-Season-Simulation/internal/forecast"
	"github.com/CT-12/Sports-Season-Simulation/internal/matchup"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"
	"github.com/CT-12/Sports-Season-Simulation/internal/projection"
	"github.com/CT-12/Sports-Season-Simulation/internal/pythag"
	"github.com/CT-12/Sports-Season-Simulation/internal/ranking"
	"github.com/CT-12/Sports-Season-Simulation/internal/repository"
	"github.com/CT-12/Sports-Season-Simulation/internal/simulation"
	"github.com/CT-12/Sports-Season-Simulation/internal/simulator"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// app holds the services shared by the subcommands
type app struct {
	cfg       *config.Config
	db        *repository.Database
	predictor *projection.Predictor
	sim       *simulator.Simulator
	out       io.Writer
}

func main() {
	setupLogger()
	cfg := config.MustLoad()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	a := &app{
		cfg: cfg,
		db:  db,
		predictor: projection.NewPredictor(cfg.PythagProjectionWeight, cfg.LeagueAvgRuns, cfg.PythagExponent).
			WithElo(cfg.EloSeasonRegression, cfg.EloInitialRating),
		sim: simulator.New(cfg.SimulatorOptions()),
		out: os.Stdout,
	}

	args := os.Args[1:]
	cmd := "season"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var result interface{}
	switch cmd {
	case "season":
		result, err = a.season(ctx, args)
	case "matchup":
		result, err = a.matchup(ctx, args)
	case "series":
		result, err = a.series(ctx, args)
	case "interval":
		result, err = a.interval(ctx, args)
	case "rank":
		result, err = a.rank(ctx, args)
	case "whatif":
		result, err = a.whatIf(ctx, args)
	default:
		err = apperrors.NewValidation("command", cmd, "season", "matchup", "series", "interval", "rank", "whatif")
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Str("kind", apperrors.Kind(err)).Msg("Command failed")
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal().Err(err).Msg("Failed to write result")
	}
}

func (a *app) season(ctx context.Context, args []string) (*forecast.Forecast, error) {
	fs := flag.NewFlagSet("season", flag.ExitOnError)
	method := fs.String("method", a.cfg.ForecastMethod, "Pythagorean or Elo")
	mode := fs.String("mode", a.cfg.MCMode, "scheduled or independent")
	base := fs.Int("base", a.cfg.BaseSeason, "season the ratings come from")
	fs.Parse(args)

	m, err := matchup.ParseMethod(*method)
	if err != nil {
		return nil, err
	}
	md, err := simulator.ParseMode(*mode)
	if err != nil {
		return nil, err
	}

	f := forecast.NewForecaster(a.db.Teams, a.db.Games, a.db.Ratings, a.predictor, a.sim)
	return f.Run(ctx, *base, m, md)
}

func (a *app) analyzer() *matchup.Analyzer {
	return matchup.NewAnalyzer(a.db.Teams, a.db.Games, a.db.Ratings, a.db.Rosters, a.predictor, a.cfg.BaseSeason)
}

// twoTeams parses the method flag and the two positional team names
func (a *app) twoTeams(name string, args []string) (string, string, string, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	method := fs.String("method", a.cfg.ForecastMethod, "Pythagorean or Elo")
	fs.Parse(args)

	if fs.NArg() != 2 {
		return "", "", "", fmt.Errorf("%s needs two team names, got %d", name, fs.NArg())
	}
	return *method, fs.Arg(0), fs.Arg(1), nil
}

func (a *app) matchup(ctx context.Context, args []string) (*matchup.Analysis, error) {
	method, teamA, teamB, err := a.twoTeams("matchup", args)
	if err != nil {
		return nil, err
	}
	return a.analyzer().Analyze(ctx, teamA, teamB, method)
}

type seriesOutput struct {
	Matchup *matchup.Analysis      `json:"matchup"`
	Series  simulator.SeriesResult `json:"series"`
}

func (a *app) series(ctx context.Context, args []string) (*seriesOutput, error) {
	method, teamA, teamB, err := a.twoTeams("series", args)
	if err != nil {
		return nil, err
	}
	analysis, err := a.analyzer().Analyze(ctx, teamA, teamB, method)
	if err != nil {
		return nil, err
	}
	return &seriesOutput{
		Matchup: analysis,
		Series:  a.sim.SeasonSeries(analysis.WinProbA/100, a.cfg.MCGamesPerSeason),
	}, nil
}

type intervalOutput struct {
	Team      string                 `json:"team_name"`
	Season    int                    `json:"season"`
	Aggregate models.SeasonAggregate `json:"aggregate"`
	Rating    pythag.Result          `json:"rating"`
	Interval  simulator.Interval     `json:"interval"`
}

func (a *app) interval(ctx context.Context, args []string) (*intervalOutput, error) {
	fs := flag.NewFlagSet("interval", flag.ExitOnError)
	team := fs.String("team", "", "team name")
	season := fs.Int("season", a.cfg.BaseSeason, "season")
	variance := fs.Float64("variance", simulator.DefaultVarianceFactor, "run noise per game, as a share of the average")
	fs.Parse(args)

	if *team == "" {
		return nil, apperrors.NewMissingField("team")
	}
	t, err := a.db.Teams.GetByName(ctx, *team, *season)
	if err != nil {
		return nil, err
	}
	agg, err := a.db.Games.SeasonAggregate(ctx, t.TeamID, *season)
	if err != nil {
		return nil, err
	}

	calc := pythag.NewCalculator(a.cfg.PythagExponent)
	return &intervalOutput{
		Team:      t.Name,
		Season:    *season,
		Aggregate: agg,
		Rating:    calc.Rate(agg),
		Interval:  a.sim.RatingInterval(calc, agg.RunsScored, agg.RunsAllowed, agg.GamesPlayed, *variance),
	}, nil
}

// pipeline builds the trade pipeline over Redis, or an in-process store
// when Redis is unreachable
func (a *app) pipeline() (*simulation.Pipeline, func()) {
	var store cache.Store
	closeFn := func() {}

	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     a.cfg.RedisHost,
		Port:     strconv.Itoa(a.cfg.RedisPort),
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - using in-process cache")
		store = cache.NewMemoryStore()
	} else {
		store = redisCache
		closeFn = func() { redisCache.Close() }
	}

	states := cache.NewBaseStateCache(store, a.db.Rosters, a.cfg.CacheTTL(), a.cfg.CacheKeyPrefix)
	return simulation.NewPipeline(states), closeFn
}

func (a *app) rank(ctx context.Context, args []string) (*ranking.DetailedStandings, error) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	hitter := fs.String("hitter", "ops", "hitter metric")
	pitcher := fs.String("pitcher", "era", "pitcher metric")
	season := fs.Int("season", a.cfg.BaseSeason, "season")
	fs.Parse(args)

	p, closeFn := a.pipeline()
	defer closeFn()
	return p.Rank(ctx, *season, *hitter, *pitcher)
}

func (a *app) whatIf(ctx context.Context, args []string) (*simulation.Result, error) {
	fs := flag.NewFlagSet("whatif", flag.ExitOnError)
	hitter := fs.String("hitter", "ops", "hitter metric")
	pitcher := fs.String("pitcher", "era", "pitcher metric")
	season := fs.Int("season", a.cfg.BaseSeason, "season")
	trades := fs.String("trades", "-", `JSON transactions file, "-" for stdin`)
	fs.Parse(args)

	var (
		raw []byte
		err error
	)
	if *trades == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(*trades)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	txs, err := simulation.ParseTransactions(raw)
	if err != nil {
		return nil, err
	}

	p, closeFn := a.pipeline()
	defer closeFn()
	return p.Run(ctx, simulation.Request{
		Season:        *season,
		HitterMetric:  *hitter,
		PitcherMetric: *pitcher,
		Transactions:  txs,
	})
}

// setupLogger configures the zerolog logger. Logs go to stderr so stdout
// carries only the result.
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
