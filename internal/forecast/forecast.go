// Package forecast projects the next season's league standings from the base
// season's team strength.
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/elo"
	"github.com/CT-12/Sports-Season-Simulation/internal/league"
	"github.com/CT-12/Sports-Season-Simulation/internal/matchup"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"
	"github.com/CT-12/Sports-Season-Simulation/internal/projection"
	"github.com/CT-12/Sports-Season-Simulation/internal/simulator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Fallback ratings for teams without base-season data
const (
	FallbackWinPct = 0.5
	FallbackElo    = elo.DefaultInitialRating
)

// TeamLister lists a season's teams
type TeamLister interface {
	List(ctx context.Context, season int) ([]models.Team, error)
}

// AggregateSource returns every team's run totals for a season
type AggregateSource interface {
	SeasonAggregates(ctx context.Context, season int) (map[int]models.SeasonAggregate, error)
}

// Standing is one team's projected season
type Standing struct {
	Team      string  `json:"team_name"`
	Rating    float64 `json:"rating"`
	AvgWins   float64 `json:"avg_wins"`
	AvgLosses float64 `json:"avg_losses"`
	Rank      int     `json:"rank"`
}

// Forecast is a projected season split by league
type Forecast struct {
	RunID        uuid.UUID      `json:"run_id"`
	Method       matchup.Method `json:"method"`
	Mode         simulator.Mode `json:"mode"`
	BaseSeason   int            `json:"base_season"`
	TargetSeason int            `json:"target_season"`
	Trials       int            `json:"simulations"`
	Seed         int64          `json:"seed"`
	Fallbacks    []string       `json:"fallback_teams,omitempty"`
	AL           []Standing     `json:"AL"`
	NL           []Standing     `json:"NL"`
}

// Names returns the team names of each league in projected order
func (f *Forecast) Names() map[string][]string {
	names := func(s []Standing) []string {
		out := make([]string, len(s))
		for i, t := range s {
			out[i] = t.Team
		}
		return out
	}
	return map[string][]string{
		string(league.American): names(f.AL),
		string(league.National): names(f.NL),
	}
}

// Forecaster rates every team of the base season and simulates the next
type Forecaster struct {
	teams      TeamLister
	aggregates AggregateSource
	ratings    matchup.RatingSource
	predictor  *projection.Predictor
	sim        *simulator.Simulator
}

// NewForecaster creates a forecaster
func NewForecaster(teams TeamLister, aggregates AggregateSource, ratings matchup.RatingSource, predictor *projection.Predictor, sim *simulator.Simulator) *Forecaster {
	return &Forecaster{
		teams:      teams,
		aggregates: aggregates,
		ratings:    ratings,
		predictor:  predictor,
		sim:        sim,
	}
}

// Run forecasts the season after baseSeason. Teams outside the league
// alignment table are not simulated.
func (f *Forecaster) Run(ctx context.Context, baseSeason int, method matchup.Method, mode simulator.Mode) (*Forecast, error) {
	if baseSeason <= 0 {
		return nil, apperrors.NewMissingField("base_season")
	}

	all, err := f.teams.List(ctx, baseSeason)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	teams := make([]models.Team, 0, len(all))
	for _, t := range all {
		if _, ok := league.Lookup(t.Name); ok {
			teams = append(teams, t)
		} else {
			log.Debug().Str("team", t.Name).Msg("Skipping team outside the league alignment")
		}
	}
	if len(teams) == 0 {
		return nil, &apperrors.DataUnavailableError{
			Resource: fmt.Sprintf("teams for season %d", baseSeason),
			Hint:     "load team data first",
		}
	}

	var (
		ratings   map[string]float64
		fallbacks []string
		prob      simulator.ProbabilityFunc
		average   float64
	)
	switch method {
	case matchup.MethodElo:
		ratings, fallbacks, err = f.eloRatings(ctx, teams, baseSeason)
		prob = func(ra, rb float64) float64 { return matchup.EloLogistic(ra, rb).A }
		average = meanRating(ratings)
	case matchup.MethodPythagorean:
		ratings, fallbacks, err = f.pythagoreanRatings(ctx, teams, baseSeason)
		prob = func(pa, pb float64) float64 { return matchup.Log5(pa, pb).A }
		average = FallbackWinPct
	default:
		return nil, apperrors.NewValidation("method", string(method), matchup.Methods()...)
	}
	if err != nil {
		return nil, err
	}
	if len(fallbacks) > 0 {
		log.Warn().Strs("teams", fallbacks).Str("method", string(method)).Msg("Using fallback ratings")
	}

	res, err := f.sim.Run(ctx, mode, ratings, prob, average)
	if err != nil {
		return nil, err
	}

	out := &Forecast{
		RunID:        res.RunID,
		Method:       method,
		Mode:         res.Mode,
		BaseSeason:   baseSeason,
		TargetSeason: baseSeason + 1,
		Trials:       res.Trials,
		Seed:         res.Seed,
		Fallbacks:    fallbacks,
		AL:           []Standing{},
		NL:           []Standing{},
	}
	// res.Teams is sorted by average wins then name
	for _, t := range res.Teams {
		s := Standing{Team: t.Team, Rating: t.Rating, AvgWins: t.AvgWins, AvgLosses: t.AvgLosses}
		if league.LeagueOf(t.Team) == league.American {
			s.Rank = len(out.AL) + 1
			out.AL = append(out.AL, s)
		} else {
			s.Rank = len(out.NL) + 1
			out.NL = append(out.NL, s)
		}
	}

	log.Info().
		Str("run_id", out.RunID.String()).
		Str("method", string(method)).
		Str("mode", string(out.Mode)).
		Int("base_season", baseSeason).
		Int("teams", len(res.Teams)).
		Msg("Season forecast completed")

	return out, nil
}

func (f *Forecaster) pythagoreanRatings(ctx context.Context, teams []models.Team, season int) (map[string]float64, []string, error) {
	aggs, err := f.aggregates.SeasonAggregates(ctx, season)
	if err != nil && !apperrors.IsDataUnavailable(err) {
		return nil, nil, fmt.Errorf("failed to get season aggregates: %w", err)
	}

	ratings := make(map[string]float64, len(teams))
	var fallbacks []string
	for _, t := range teams {
		agg, ok := aggs[t.TeamID]
		if !ok || agg.RunsScored == 0 {
			ratings[t.Name] = FallbackWinPct
			fallbacks = append(fallbacks, t.Name)
			continue
		}
		pred := f.predictor.PredictNextSeason(float64(agg.RunsScored), float64(agg.RunsAllowed))
		ratings[t.Name] = pred.ProjectedWinPct
	}
	return ratings, fallbacks, nil
}

func (f *Forecaster) eloRatings(ctx context.Context, teams []models.Team, season int) (map[string]float64, []string, error) {
	endOfSeason := time.Date(season, time.December, 31, 0, 0, 0, 0, time.UTC)

	ratings := make(map[string]float64, len(teams))
	var fallbacks []string
	for _, t := range teams {
		e, err := f.ratings.Latest(ctx, t.TeamID, endOfSeason, &season)
		if apperrors.IsDataUnavailable(err) {
			ratings[t.Name] = FallbackElo
			fallbacks = append(fallbacks, t.Name)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get Elo rating for %s: %w", t.Name, err)
		}
		ratings[t.Name] = f.predictor.RegressElo(e.Rating).InexactFloat64()
	}
	return ratings, fallbacks, nil
}

// meanRating is the league-average opponent for independent Elo seasons
func meanRating(ratings map[string]float64) float64 {
	if len(ratings) == 0 {
		return FallbackElo
	}
	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromFloat(r))
	}
	return sum.Div(decimal.NewFromInt(int64(len(ratings)))).InexactFloat64()
}
