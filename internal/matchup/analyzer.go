package matchup

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/elo"
	"github.com/CT-12/Sports-Season-Simulation/internal/lookup"
	"github.com/CT-12/Sports-Season-Simulation/internal/models"
	"github.com/CT-12/Sports-Season-Simulation/internal/projection"

	"github.com/rs/zerolog/log"
)

// TeamSource resolves teams by name
type TeamSource interface {
	GetByName(ctx context.Context, name string, season int) (*models.Team, error)
	List(ctx context.Context, season int) ([]models.Team, error)
}

// AggregateSource provides season run totals
type AggregateSource interface {
	SeasonAggregate(ctx context.Context, teamID, season int) (models.SeasonAggregate, error)
}

// RatingSource provides stored Elo history
type RatingSource interface {
	Latest(ctx context.Context, teamID int, onOrBefore time.Time, season *int) (*models.RatingEntry, error)
}

// RosterSource provides team rosters
type RosterSource interface {
	Roster(ctx context.Context, teamID, season int) ([]models.RosterPlayer, error)
}

// Analysis is the result of a head-to-head matchup
type Analysis struct {
	Method     Method                `json:"method"`
	BaseSeason int                   `json:"base_season"`
	TeamA      string                `json:"team_A_name"`
	TeamB      string                `json:"team_B_name"`
	RosterA    []models.RosterPlayer `json:"team_A"`
	RosterB    []models.RosterPlayer `json:"team_B"`
	ScoreA     float64               `json:"team_A_score"`
	ScoreB     float64               `json:"team_B_score"`
	WinProbA   float64               `json:"team_A_win_prob"`
	WinProbB   float64               `json:"team_B_win_prob"`
}

// Analyzer rates two teams from the base season and projects the next one
type Analyzer struct {
	teams      TeamSource
	aggregates AggregateSource
	ratings    RatingSource
	rosters    RosterSource
	predictor  *projection.Predictor
	baseSeason int
}

// NewAnalyzer creates an analyzer for the given base season
func NewAnalyzer(teams TeamSource, aggregates AggregateSource, ratings RatingSource, rosters RosterSource, predictor *projection.Predictor, baseSeason int) *Analyzer {
	return &Analyzer{
		teams:      teams,
		aggregates: aggregates,
		ratings:    ratings,
		rosters:    rosters,
		predictor:  predictor,
		baseSeason: baseSeason,
	}
}

// Analyze compares two teams by name with the given method
func (a *Analyzer) Analyze(ctx context.Context, teamA, teamB, method string) (*Analysis, error) {
	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}
	if teamA == "" {
		return nil, apperrors.NewMissingField("team_a")
	}
	if teamB == "" {
		return nil, apperrors.NewMissingField("team_b")
	}

	ta, err := a.resolveTeam(ctx, teamA)
	if err != nil {
		return nil, err
	}
	tb, err := a.resolveTeam(ctx, teamB)
	if err != nil {
		return nil, err
	}

	var (
		scoreA, scoreB float64
		prob           Probability
	)
	switch m {
	case MethodElo:
		scoreA, scoreB, prob, err = a.eloMatchup(ctx, ta, tb)
	default:
		scoreA, scoreB, prob, err = a.pythagoreanMatchup(ctx, ta, tb)
	}
	if err != nil {
		return nil, err
	}

	rosterA, err := a.rosters.Roster(ctx, ta.TeamID, a.baseSeason)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster for %s: %w", ta.Name, err)
	}
	rosterB, err := a.rosters.Roster(ctx, tb.TeamID, a.baseSeason)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster for %s: %w", tb.Name, err)
	}

	pctA, pctB := prob.Percent()
	log.Debug().
		Str("method", string(m)).
		Str("team_a", ta.Name).
		Str("team_b", tb.Name).
		Float64("prob_a", pctA).
		Msg("Matchup analyzed")

	return &Analysis{
		Method:     m,
		BaseSeason: a.baseSeason,
		TeamA:      ta.Name,
		TeamB:      tb.Name,
		RosterA:    rosterA,
		RosterB:    rosterB,
		ScoreA:     scoreA,
		ScoreB:     scoreB,
		WinProbA:   pctA,
		WinProbB:   pctB,
	}, nil
}

func (a *Analyzer) resolveTeam(ctx context.Context, name string) (*models.Team, error) {
	team, err := a.teams.GetByName(ctx, name, a.baseSeason)
	if err == nil {
		return team, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up team %s: %w", name, err)
	}

	nf := &apperrors.NotFoundError{Entity: "team", Name: name, Scope: fmt.Sprintf("season %d", a.baseSeason)}
	if all, listErr := a.teams.List(ctx, a.baseSeason); listErr == nil {
		names := make([]string, len(all))
		for i, t := range all {
			names[i] = t.Name
		}
		nf.Suggestions = lookup.Suggest(name, names, 3)
	}
	return nil, nf
}

func (a *Analyzer) pythagoreanMatchup(ctx context.Context, ta, tb *models.Team) (float64, float64, Probability, error) {
	pa, err := a.projectedWinPct(ctx, ta)
	if err != nil {
		return 0, 0, Probability{}, err
	}
	pb, err := a.projectedWinPct(ctx, tb)
	if err != nil {
		return 0, 0, Probability{}, err
	}
	return round2(pa * 100), round2(pb * 100), Log5(pa, pb), nil
}

func (a *Analyzer) projectedWinPct(ctx context.Context, team *models.Team) (float64, error) {
	agg, err := a.aggregates.SeasonAggregate(ctx, team.TeamID, a.baseSeason)
	if err != nil {
		return 0, fmt.Errorf("failed to get season aggregate for %s: %w", team.Name, err)
	}
	if !agg.HasGames() || agg.RunsScored == 0 {
		return 0, &apperrors.DataUnavailableError{
			Resource: fmt.Sprintf("run totals for %s in %d", team.Name, a.baseSeason),
			Hint:     "load the season's game results first",
		}
	}
	pred := a.predictor.PredictNextSeason(float64(agg.RunsScored), float64(agg.RunsAllowed))
	return pred.ProjectedWinPct, nil
}

func (a *Analyzer) eloMatchup(ctx context.Context, ta, tb *models.Team) (float64, float64, Probability, error) {
	ra, err := a.projectedElo(ctx, ta)
	if err != nil {
		return 0, 0, Probability{}, err
	}
	rb, err := a.projectedElo(ctx, tb)
	if err != nil {
		return 0, 0, Probability{}, err
	}
	return round2(elo.DisplayScore(ra)), round2(elo.DisplayScore(rb)), EloLogistic(ra, rb), nil
}

func (a *Analyzer) projectedElo(ctx context.Context, team *models.Team) (float64, error) {
	season := a.baseSeason
	end := time.Date(season, time.December, 31, 0, 0, 0, 0, time.UTC)
	entry, err := a.ratings.Latest(ctx, team.TeamID, end, &season)
	if err != nil {
		if apperrors.IsDataUnavailable(err) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to get Elo rating for %s: %w", team.Name, err)
	}
	return a.predictor.RegressElo(entry.Rating).InexactFloat64(), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
