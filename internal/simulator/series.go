package simulator

import (
	"math"
	"math/rand"
	"sort"

	"github.com/CT-12/Sports-Season-Simulation/internal/pythag"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SeriesResult summarises repeated head-to-head seasons between two teams
type SeriesResult struct {
	AvgWinsA       float64 `json:"team_a_avg_wins"`
	AvgWinsB       float64 `json:"team_b_avg_wins"`
	ABetterPercent float64 `json:"team_a_win_season_prob"`
	Trials         int     `json:"simulations"`
}

// SeasonSeries plays a series of head-to-head games Trials times, team A
// winning each game with probability probA.
func (s *Simulator) SeasonSeries(probA float64, games int) SeriesResult {
	if games <= 0 {
		games = s.opts.GamesPerSeason
	}
	rng := rand.New(rand.NewSource(s.seed()))

	var totalA, better int
	for t := 0; t < s.opts.Trials; t++ {
		winsA := 0
		for g := 0; g < games; g++ {
			if rng.Float64() < probA {
				winsA++
			}
		}
		totalA += winsA
		if winsA > games-winsA {
			better++
		}
	}

	trials := float64(s.opts.Trials)
	avgA := float64(totalA) / trials
	return SeriesResult{
		AvgWinsA:       round(avgA, 3),
		AvgWinsB:       round(float64(games)-avgA, 3),
		ABetterPercent: round(float64(better)/trials*100, 2),
		Trials:         s.opts.Trials,
	}
}

// DefaultVarianceFactor scales the per-season run noise in RatingInterval
const DefaultVarianceFactor = 0.1

// Interval is the spread of a Pythagorean rating under run-scoring noise
type Interval struct {
	Rating       float64 `json:"adjusted_rating"`
	StdDev       float64 `json:"std_deviation"`
	Lower        float64 `json:"ci_lower"`
	Upper        float64 `json:"ci_upper"`
	EmpiricalLow float64 `json:"empirical_lower"`
	EmpiricalHi  float64 `json:"empirical_upper"`
}

// RatingInterval perturbs season run totals with Gaussian noise of
// avg_per_game*variance*sqrt(games) and reports the resulting rating spread
// with a 95% normal interval and the empirical 2.5/97.5 percentiles.
func (s *Simulator) RatingInterval(calc *pythag.Calculator, runsScored, runsAllowed, games int, variance float64) Interval {
	base := calc.WinPct(float64(runsScored), float64(runsAllowed)) * 100
	if games <= 0 {
		base = round(base, 2)
		return Interval{Rating: base, Lower: base, Upper: base, EmpiricalLow: base, EmpiricalHi: base}
	}
	if variance <= 0 {
		variance = DefaultVarianceFactor
	}

	sqrtGames := math.Sqrt(float64(games))
	stdRS := float64(runsScored) / float64(games) * variance * sqrtGames
	stdRA := float64(runsAllowed) / float64(games) * variance * sqrtGames

	rng := rand.New(rand.NewSource(s.seed()))
	samples := make([]float64, s.opts.Trials)
	for i := range samples {
		rs := math.Max(0, float64(runsScored)+rng.NormFloat64()*stdRS)
		ra := math.Max(0, float64(runsAllowed)+rng.NormFloat64()*stdRA)
		samples[i] = calc.WinPct(rs, ra) * 100
	}

	mean, std := stat.PopMeanStdDev(samples, nil)
	z := distuv.UnitNormal.Quantile(0.975)
	sort.Float64s(samples)

	return Interval{
		Rating:       round(mean, 2),
		StdDev:       round(std, 2),
		Lower:        round(mean-z*std, 2),
		Upper:        round(mean+z*std, 2),
		EmpiricalLow: round(stat.Quantile(0.025, stat.Empirical, samples, nil), 2),
		EmpiricalHi:  round(stat.Quantile(0.975, stat.Empirical, samples, nil), 2),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
