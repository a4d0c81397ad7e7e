// Package projection regresses one season's ratings toward the league mean to
// estimate the next season.
package projection

import (
	"math"

	"github.com/CT-12/Sports-Season-Simulation/internal/pythag"

	"github.com/shopspring/decimal"
)

const (
	DefaultWeight        = 0.7
	DefaultLeagueAvgRuns = 540
	DefaultEloWeight     = 0.75
	DefaultEloInitial    = 1500
)

// Predictor projects win percentages and Elo ratings into the next season
type Predictor struct {
	// Weight kept on the current-season value; the rest goes to the mean
	Weight        float64
	LeagueAvgRuns float64
	EloWeight     float64
	EloInitial    float64
	calc          *pythag.Calculator
}

// NewPredictor builds a predictor. Zero values fall back to the defaults.
func NewPredictor(weight, leagueAvgRuns, exponent float64) *Predictor {
	if weight <= 0 || weight > 1 {
		weight = DefaultWeight
	}
	if leagueAvgRuns <= 0 {
		leagueAvgRuns = DefaultLeagueAvgRuns
	}
	return &Predictor{
		Weight:        weight,
		LeagueAvgRuns: leagueAvgRuns,
		EloWeight:     DefaultEloWeight,
		EloInitial:    DefaultEloInitial,
		calc:          pythag.NewCalculator(exponent),
	}
}

// WithElo sets the Elo regression weight and initial rating
func (p *Predictor) WithElo(weight, initial float64) *Predictor {
	if weight > 0 && weight <= 1 {
		p.EloWeight = weight
	}
	if initial > 0 {
		p.EloInitial = initial
	}
	return p
}

// ProjectWinPct returns current*w + 0.5*(1-w)
func (p *Predictor) ProjectWinPct(current float64) float64 {
	return current*p.Weight + 0.5*(1-p.Weight)
}

// Prediction is a next-season projection from run totals
type Prediction struct {
	CurrentWinPct        float64 `json:"current_win_pct"`
	ProjectedWinPct      float64 `json:"predicted_win_pct"`
	ProjectedRunsScored  int     `json:"predicted_rs"`
	ProjectedRunsAllowed int     `json:"predicted_ra"`
}

// PredictNextSeason projects win percentage and run totals from one season
func (p *Predictor) PredictNextSeason(runsScored, runsAllowed float64) Prediction {
	current := p.calc.WinPct(runsScored, runsAllowed)
	return Prediction{
		CurrentWinPct:        round4(current),
		ProjectedWinPct:      round4(p.ProjectWinPct(current)),
		ProjectedRunsScored:  int(p.scaleRuns(runsScored)),
		ProjectedRunsAllowed: int(p.scaleRuns(runsAllowed)),
	}
}

func (p *Predictor) scaleRuns(runs float64) float64 {
	return runs*p.Weight + p.LeagueAvgRuns*(1-p.Weight)
}

// RegressElo returns rating*w + initial*(1-w) in decimal arithmetic
func (p *Predictor) RegressElo(rating decimal.Decimal) decimal.Decimal {
	w := decimal.NewFromFloat(p.EloWeight)
	initial := decimal.NewFromFloat(p.EloInitial)
	return rating.Mul(w).Add(initial.Mul(decimal.NewFromInt(1).Sub(w)))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
