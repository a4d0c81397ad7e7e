// Package ranking orders teams by the sum of Z-scores of one hitter metric
// and one pitcher metric, split by league.
package ranking

import (
	"fmt"
	"math"
	"sort"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/league"

	"gonum.org/v1/gonum/stat"
)

// Entry is one team in a league table
type Entry struct {
	Team  string  `json:"team_name"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Standings are the ranked teams of each league
type Standings struct {
	AL []Entry `json:"AL"`
	NL []Entry `json:"NL"`
}

// Detail is a ranked team with the values behind its score
type Detail struct {
	Team         string  `json:"team_name"`
	Score        float64 `json:"score"`
	HitterValue  float64 `json:"hitter_value"`
	PitcherValue float64 `json:"pitcher_value"`
	HitterZ      float64 `json:"hitter_z_score"`
	PitcherZ     float64 `json:"pitcher_z_score"`
	Rank         int     `json:"rank"`
}

// DetailedStandings are Standings with per-team Z-score breakdowns
type DetailedStandings struct {
	Season        int      `json:"season"`
	HitterMetric  string   `json:"hitter_metric"`
	PitcherMetric string   `json:"pitcher_metric"`
	AL            []Detail `json:"AL"`
	NL            []Detail `json:"NL"`
}

type distribution struct {
	mean float64
	std  float64
}

func newDistribution(values map[string]float64) distribution {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		xs = append(xs, v)
	}
	// sorted so the floating-point sums do not depend on map order
	sort.Float64s(xs)
	mean, std := stat.PopMeanStdDev(xs, nil)
	return distribution{mean: mean, std: std}
}

func (d distribution) z(v float64, higherIsBetter bool) float64 {
	if d.std == 0 || math.IsNaN(d.std) {
		return 0
	}
	z := (v - d.mean) / d.std
	if !higherIsBetter {
		z = -z
	}
	return z
}

// RankDetailed scores every team appearing in either map. A team missing
// from one map takes that map's mean, contributing zero for that side.
func RankDetailed(hitting, pitching map[string]float64, hitterMetric, pitcherMetric string, season int) (*DetailedStandings, error) {
	if len(hitting) == 0 || len(pitching) == 0 {
		return nil, apperrors.NewComputation("ranking",
			fmt.Sprintf("empty statistics (hitting: %d teams, pitching: %d teams)", len(hitting), len(pitching)))
	}
	if err := ValidateHitterMetric(hitterMetric); err != nil {
		return nil, err
	}
	if err := ValidatePitcherMetric(pitcherMetric); err != nil {
		return nil, err
	}
	hitterHigher := hitterDirections[hitterMetric]
	pitcherHigher := pitcherDirections[pitcherMetric]

	hd := newDistribution(hitting)
	pd := newDistribution(pitching)

	details := make([]Detail, 0, len(hitting))
	for _, team := range teamUnion(hitting, pitching) {
		hv, ok := hitting[team]
		if !ok {
			hv = hd.mean
		}
		pv, ok := pitching[team]
		if !ok {
			pv = pd.mean
		}
		hz := hd.z(hv, hitterHigher)
		pz := pd.z(pv, pitcherHigher)

		details = append(details, Detail{
			Team:         team,
			Score:        round(hz+pz, 3),
			HitterValue:  round(hv, 4),
			PitcherValue: round(pv, 4),
			HitterZ:      round(hz, 3),
			PitcherZ:     round(pz, 3),
		})
	}

	sort.SliceStable(details, func(i, j int) bool {
		if details[i].Score != details[j].Score {
			return details[i].Score > details[j].Score
		}
		return details[i].Team < details[j].Team
	})

	out := &DetailedStandings{
		Season:        season,
		HitterMetric:  hitterMetric,
		PitcherMetric: pitcherMetric,
		AL:            []Detail{},
		NL:            []Detail{},
	}
	for _, d := range details {
		if league.LeagueOf(d.Team) == league.American {
			out.AL = append(out.AL, d)
		} else {
			out.NL = append(out.NL, d)
		}
	}
	denseRank(len(out.AL), func(i int) float64 { return out.AL[i].Score }, func(i, r int) { out.AL[i].Rank = r })
	denseRank(len(out.NL), func(i int) float64 { return out.NL[i].Score }, func(i, r int) { out.NL[i].Rank = r })

	return out, nil
}

// Rank returns the league tables without the Z-score breakdown
func Rank(hitting, pitching map[string]float64, hitterMetric, pitcherMetric string) (*Standings, error) {
	detailed, err := RankDetailed(hitting, pitching, hitterMetric, pitcherMetric, 0)
	if err != nil {
		return nil, err
	}
	return detailed.Standings(), nil
}

// Standings drops the breakdown from detailed standings
func (d *DetailedStandings) Standings() *Standings {
	out := &Standings{
		AL: make([]Entry, len(d.AL)),
		NL: make([]Entry, len(d.NL)),
	}
	for i, t := range d.AL {
		out.AL[i] = Entry{Team: t.Team, Score: t.Score, Rank: t.Rank}
	}
	for i, t := range d.NL {
		out.NL[i] = Entry{Team: t.Team, Score: t.Score, Rank: t.Rank}
	}
	return out
}

// Teams returns the team names of a league table in order
func Teams(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Team
	}
	return out
}

// denseRank assigns ranks from 1 to an already sorted list; equal scores
// share a rank and the next distinct score takes the following rank.
func denseRank(n int, score func(int) float64, set func(i, rank int)) {
	rank := 0
	for i := 0; i < n; i++ {
		if i == 0 || score(i) != score(i-1) {
			rank++
		}
		set(i, rank)
	}
}

func teamUnion(a, b map[string]float64) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for t := range a {
		seen[t] = struct{}{}
	}
	for t := range b {
		seen[t] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
