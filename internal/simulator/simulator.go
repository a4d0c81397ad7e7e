// Package simulator runs Monte Carlo season simulations.
package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Mode selects how a season is simulated
type Mode string

const (
	// ModeScheduled plays a weighted round-robin schedule using head-to-head probabilities
	ModeScheduled Mode = "scheduled"
	// ModeIndependent plays each team's games against a league-average opponent
	ModeIndependent Mode = "independent"

	DefaultMode = ModeScheduled
)

// ParseMode accepts a mode name in any case. An empty name selects DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "":
		return DefaultMode, nil
	case string(ModeScheduled):
		return ModeScheduled, nil
	case string(ModeIndependent):
		return ModeIndependent, nil
	}
	return "", apperrors.NewValidation("mode", s, string(ModeScheduled), string(ModeIndependent))
}

const (
	DefaultTrials         = 1000
	DefaultGamesPerSeason = 162

	// maxShards bounds how trials are split. The split does not depend on
	// the worker count, so a seed gives the same result on any machine.
	maxShards = 64
)

// ProbabilityFunc returns the probability that a team rated ra beats one rated rb
type ProbabilityFunc func(ra, rb float64) float64

// Options configures a Simulator
type Options struct {
	Trials         int
	Seed           int64 // 0 picks a time-based seed
	Workers        int
	GamesPerSeason int
	Weights        ScheduleWeights
}

// DefaultOptions returns the default simulation options
func DefaultOptions() Options {
	return Options{
		Trials:         DefaultTrials,
		Workers:        runtime.NumCPU(),
		GamesPerSeason: DefaultGamesPerSeason,
		Weights:        DefaultScheduleWeights(),
	}
}

// TeamResult is one team's simulated season
type TeamResult struct {
	Team      string  `json:"team"`
	Rating    float64 `json:"rating"`
	AvgWins   float64 `json:"avg_wins"`
	AvgLosses float64 `json:"avg_losses"`
	Games     int     `json:"games"`
}

// Result is the outcome of a simulation, sorted by average wins
type Result struct {
	RunID    uuid.UUID     `json:"run_id"`
	Mode     Mode          `json:"mode"`
	Trials   int           `json:"trials"`
	Seed     int64         `json:"seed"`
	Teams    []TeamResult  `json:"teams"`
	Duration time.Duration `json:"duration"`
}

// Wins returns the average wins per team
func (r *Result) Wins() map[string]float64 {
	out := make(map[string]float64, len(r.Teams))
	for _, t := range r.Teams {
		out[t.Team] = t.AvgWins
	}
	return out
}

// Simulator runs Monte Carlo seasons. It is safe for concurrent use.
type Simulator struct {
	opts Options
}

// New creates a simulator, filling zero options with defaults
func New(opts Options) *Simulator {
	def := DefaultOptions()
	if opts.Trials <= 0 {
		opts.Trials = def.Trials
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.GamesPerSeason <= 0 {
		opts.GamesPerSeason = def.GamesPerSeason
	}
	if opts.Weights == (ScheduleWeights{}) {
		opts.Weights = def.Weights
	}
	return &Simulator{opts: opts}
}

// Options returns the effective options
func (s *Simulator) Options() Options {
	return s.opts
}

// Run dispatches on mode. average is the league-average rating used by
// independent mode.
func (s *Simulator) Run(ctx context.Context, mode Mode, ratings map[string]float64, prob ProbabilityFunc, average float64) (*Result, error) {
	switch mode {
	case ModeScheduled:
		return s.RunScheduled(ctx, ratings, prob)
	case ModeIndependent:
		return s.RunIndependent(ctx, ratings, prob, average)
	default:
		return nil, apperrors.NewValidation("mode", string(mode), string(ModeScheduled), string(ModeIndependent))
	}
}

// RunScheduled plays the weighted round-robin schedule Trials times. Each
// game is a uniform draw against prob(rating_a, rating_b).
func (s *Simulator) RunScheduled(ctx context.Context, ratings map[string]float64, prob ProbabilityFunc) (*Result, error) {
	if len(ratings) == 0 {
		return nil, apperrors.NewMissingField("ratings")
	}
	start := time.Now()

	names := sortedNames(ratings)
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	schedule := BuildSchedule(names, s.opts.Weights)
	teamA := make([]int, len(schedule))
	teamB := make([]int, len(schedule))
	probs := make([]float64, len(schedule))
	for i, g := range schedule {
		teamA[i] = index[g.TeamA]
		teamB[i] = index[g.TeamB]
		probs[i] = prob(ratings[g.TeamA], ratings[g.TeamB])
	}

	seed := s.seed()
	totals, err := s.runShards(ctx, seed, len(names), func(rng *rand.Rand, wins []int64) {
		for g := range probs {
			if rng.Float64() < probs[g] {
				wins[teamA[g]]++
			} else {
				wins[teamB[g]]++
			}
		}
	})
	if err != nil {
		return nil, err
	}

	games := GamesPerTeam(schedule)
	res := s.buildResult(ModeScheduled, seed, names, ratings, totals, func(team string) int { return games[team] })
	res.Duration = time.Since(start)
	s.record(res)
	return res, nil
}

// RunIndependent plays GamesPerSeason Bernoulli games per team per trial
// against a team rated average.
func (s *Simulator) RunIndependent(ctx context.Context, ratings map[string]float64, prob ProbabilityFunc, average float64) (*Result, error) {
	if len(ratings) == 0 {
		return nil, apperrors.NewMissingField("ratings")
	}
	start := time.Now()

	names := sortedNames(ratings)
	probs := make([]float64, len(names))
	for i, n := range names {
		probs[i] = prob(ratings[n], average)
	}

	n := s.opts.GamesPerSeason
	seed := s.seed()
	totals, err := s.runShards(ctx, seed, len(names), func(rng *rand.Rand, wins []int64) {
		for t, p := range probs {
			for g := 0; g < n; g++ {
				if rng.Float64() < p {
					wins[t]++
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}

	res := s.buildResult(ModeIndependent, seed, names, ratings, totals, func(string) int { return n })
	res.Duration = time.Since(start)
	s.record(res)
	return res, nil
}

// runShards splits Trials into independent shards, each with its own
// random source seeded from a master source, and sums their win counts.
func (s *Simulator) runShards(ctx context.Context, seed int64, teams int, trial func(rng *rand.Rand, wins []int64)) ([]int64, error) {
	shards := min(s.opts.Trials, maxShards)
	master := rand.New(rand.NewSource(seed))
	seeds := make([]int64, shards)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	partial := make([][]int64, shards)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i := 0; i < shards; i++ {
		count := s.opts.Trials / shards
		if i < s.opts.Trials%shards {
			count++
		}
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seeds[i]))
			wins := make([]int64, teams)
			for t := 0; t < count; t++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				trial(rng, wins)
			}
			partial[i] = wins
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to run simulation shards: %w", err)
	}

	totals := make([]int64, teams)
	for _, wins := range partial {
		for t, w := range wins {
			totals[t] += w
		}
	}
	return totals, nil
}

func (s *Simulator) buildResult(mode Mode, seed int64, names []string, ratings map[string]float64, totals []int64, games func(string) int) *Result {
	trials := float64(s.opts.Trials)
	teams := make([]TeamResult, len(names))
	for i, n := range names {
		avg := float64(totals[i]) / trials
		teams[i] = TeamResult{
			Team:      n,
			Rating:    ratings[n],
			AvgWins:   avg,
			AvgLosses: float64(games(n)) - avg,
			Games:     games(n),
		}
	}
	SortTeamResults(teams)

	return &Result{
		RunID:  uuid.New(),
		Mode:   mode,
		Trials: s.opts.Trials,
		Seed:   seed,
		Teams:  teams,
	}
}

func (s *Simulator) record(res *Result) {
	metrics.RecordMonteCarlo(string(res.Mode), res.Trials, res.Duration.Seconds())
	log.Info().
		Str("run_id", res.RunID.String()).
		Str("mode", string(res.Mode)).
		Int("trials", res.Trials).
		Int("teams", len(res.Teams)).
		Int64("seed", res.Seed).
		Dur("duration", res.Duration).
		Msg("Monte Carlo simulation complete")
}

func (s *Simulator) seed() int64 {
	if s.opts.Seed != 0 {
		return s.opts.Seed
	}
	return time.Now().UnixNano()
}

// SortTeamResults orders by average wins descending, then by team name
func SortTeamResults(teams []TeamResult) {
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].AvgWins != teams[j].AvgWins {
			return teams[i].AvgWins > teams[j].AvgWins
		}
		return teams[i].Team < teams[j].Team
	})
}

func sortedNames(ratings map[string]float64) []string {
	names := make([]string, 0, len(ratings))
	for n := range ratings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
