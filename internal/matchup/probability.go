// Package matchup computes head-to-head win probabilities between two teams.
package matchup

import (
	"math"
	"strings"

	"github.com/CT-12/Sports-Season-Simulation/internal/apperrors"
	"github.com/CT-12/Sports-Season-Simulation/internal/elo"
)

// Method selects how team strength is rated
type Method string

const (
	MethodPythagorean Method = "Pythagorean"
	MethodElo         Method = "Elo"
)

// Methods lists the accepted method names
func Methods() []string {
	return []string{string(MethodPythagorean), string(MethodElo)}
}

// ParseMethod accepts a method name in any case. An empty name selects Pythagorean.
func ParseMethod(s string) (Method, error) {
	switch {
	case s == "":
		return MethodPythagorean, nil
	case strings.EqualFold(s, string(MethodPythagorean)):
		return MethodPythagorean, nil
	case strings.EqualFold(s, string(MethodElo)):
		return MethodElo, nil
	}
	return "", apperrors.NewValidation("method", s, Methods()...)
}

// Probability is a pair of complementary win probabilities
type Probability struct {
	A float64 `json:"prob_a"`
	B float64 `json:"prob_b"`
}

// Percent returns both probabilities scaled to 0-100 and rounded to two places
func (p Probability) Percent() (a, b float64) {
	return math.Round(p.A*10000) / 100, math.Round(p.B*10000) / 100
}

// Log5 returns the probability that a team with win rate pa beats one with pb
func Log5(pa, pb float64) Probability {
	num := pa - pa*pb
	den := pa + pb - 2*pa*pb
	if den == 0 {
		return Probability{A: 0.5, B: 0.5}
	}
	a := num / den
	return Probability{A: a, B: 1 - a}
}

// EloLogistic returns 1/(1+10^((rb-ra)/400)) for team A
func EloLogistic(ra, rb float64) Probability {
	a, b := elo.WinProbability(ra, rb)
	return Probability{A: a, B: b}
}
