// Package pythag rates teams by Pythagorean expectation from season run totals.
package pythag

import (
	"math"
	"sort"

	"github.com/CT-12/Sports-Season-Simulation/internal/models"
)

// DefaultExponent is the Pythagenpat exponent fitted for MLB run environments
const DefaultExponent = 1.83

// Status classifies a Result
type Status string

const (
	StatusOK Status = "ok"
	// StatusNeutral: games were played but no runs were recorded either way
	StatusNeutral Status = "neutral"
	// StatusNoData: the team has no games in the season
	StatusNoData Status = "no_data"
)

// Result is a team's Pythagorean rating for one season
type Result struct {
	TeamID          int     `json:"team_id"`
	Season          int     `json:"season"`
	GamesPlayed     int     `json:"games_played"`
	RunsScored      int     `json:"total_runs_scored"`
	RunsAllowed     int     `json:"total_runs_allowed"`
	ExpectedWinRate float64 `json:"expected_win_rate"`
	RatingScore     float64 `json:"rating_score"`
	Status          Status  `json:"status"`
	Message         string  `json:"msg"`
}

// HasData returns true unless the team had no games
func (r Result) HasData() bool {
	return r.Status != StatusNoData
}

// Calculator computes Pythagorean ratings
type Calculator struct {
	Exponent float64
}

// NewCalculator returns a calculator using the given exponent, or the default when e <= 0
func NewCalculator(e float64) *Calculator {
	if e <= 0 {
		e = DefaultExponent
	}
	return &Calculator{Exponent: e}
}

// WinPct returns RS^e / (RS^e + RA^e), or 0.5 when both totals are zero
func (c *Calculator) WinPct(runsScored, runsAllowed float64) float64 {
	if runsScored <= 0 && runsAllowed <= 0 {
		return 0.5
	}
	rs := math.Pow(runsScored, c.Exponent)
	ra := math.Pow(runsAllowed, c.Exponent)
	return rs / (rs + ra)
}

// Rate computes the rating for one season aggregate
func (c *Calculator) Rate(agg models.SeasonAggregate) Result {
	res := Result{
		TeamID:      agg.TeamID,
		Season:      agg.Season,
		GamesPlayed: agg.GamesPlayed,
		RunsScored:  agg.RunsScored,
		RunsAllowed: agg.RunsAllowed,
	}

	switch {
	case !agg.HasGames():
		res.Status = StatusNoData
		res.Message = "no games found for team in season"
		return res
	case agg.RunsScored == 0 && agg.RunsAllowed == 0:
		res.Status = StatusNeutral
		res.Message = "no runs scored or allowed; using neutral rating"
	default:
		res.Status = StatusOK
	}

	pct := c.WinPct(float64(agg.RunsScored), float64(agg.RunsAllowed))
	res.ExpectedWinRate = round(pct, 3)
	res.RatingScore = round(pct*100, 1)
	return res
}

// RateMany rates several aggregates keyed by team id
func (c *Calculator) RateMany(aggs []models.SeasonAggregate) map[int]Result {
	out := make(map[int]Result, len(aggs))
	for _, agg := range aggs {
		out[agg.TeamID] = c.Rate(agg)
	}
	return out
}

// Comparison is the head-to-head view of two ratings
type Comparison struct {
	TeamA            Result  `json:"team_a"`
	TeamB            Result  `json:"team_b"`
	RatingDifference float64 `json:"rating_difference"`
	// FavoriteTeamID is 0 when the scores are equal
	FavoriteTeamID int `json:"favorite_team_id"`
}

// Compare reports which of two rated teams is favoured
func Compare(a, b Result) Comparison {
	cmp := Comparison{
		TeamA:            a,
		TeamB:            b,
		RatingDifference: round(a.RatingScore-b.RatingScore, 1),
	}
	switch {
	case a.RatingScore > b.RatingScore:
		cmp.FavoriteTeamID = a.TeamID
	case b.RatingScore > a.RatingScore:
		cmp.FavoriteTeamID = b.TeamID
	}
	return cmp
}

// TopTeams returns up to limit results ordered by rating score, skipping
// teams without a score.
func TopTeams(results []Result, limit int) []Result {
	rated := make([]Result, 0, len(results))
	for _, r := range results {
		if r.RatingScore > 0 {
			rated = append(rated, r)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		if rated[i].RatingScore != rated[j].RatingScore {
			return rated[i].RatingScore > rated[j].RatingScore
		}
		return rated[i].TeamID < rated[j].TeamID
	})
	if limit > 0 && len(rated) > limit {
		rated = rated[:limit]
	}
	return rated
}

// LogisticWinProbability converts a rating-score gap into a win probability
// with slope k (0.1 by default when k <= 0).
func LogisticWinProbability(ratingA, ratingB, k float64) (probA, diff float64) {
	if k <= 0 {
		k = 0.1
	}
	diff = ratingA - ratingB
	return 1 / (1 + math.Exp(-k*diff)), diff
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
