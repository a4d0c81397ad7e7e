// Package elo folds a chronological game log into per-team Elo rating history.
package elo

import (
	"math"
)

const (
	DefaultKFactor          = 20.0
	DefaultInitialRating    = 1500.0
	DefaultSeasonRegression = 0.75

	// DisplayFloor and DisplayCeiling bound the rating range mapped onto 0-100
	DisplayFloor   = 1200.0
	DisplayCeiling = 1800.0
)

// Params configures the Elo fold
type Params struct {
	KFactor       float64
	InitialRating float64
	// RegressionWeight is the share of the old rating kept at a season boundary
	RegressionWeight float64
}

// DefaultParams returns K=20, initial 1500, regression weight 0.75
func DefaultParams() Params {
	return Params{
		KFactor:          DefaultKFactor,
		InitialRating:    DefaultInitialRating,
		RegressionWeight: DefaultSeasonRegression,
	}
}

// ExpectedScore returns the probability that a team rated ra beats a team rated rb
func ExpectedScore(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/400))
}

// MarginMultiplier scales an update by ln(|diff|+1). Ties use 1.
func MarginMultiplier(scoreA, scoreB int) float64 {
	diff := scoreA - scoreB
	if diff == 0 {
		return 1
	}
	if diff < 0 {
		diff = -diff
	}
	return math.Log(float64(diff) + 1)
}

// ActualScore returns team A's result: 1 for a win, 0 for a loss, 0.5 for a tie
func ActualScore(scoreA, scoreB int) float64 {
	switch {
	case scoreA > scoreB:
		return 1
	case scoreA < scoreB:
		return 0
	default:
		return 0.5
	}
}

// Change returns the rating deltas for a single game. changeB is always -changeA.
func (p Params) Change(ra, rb float64, scoreA, scoreB int) (changeA, changeB float64) {
	expected := ExpectedScore(ra, rb)
	changeA = p.KFactor * MarginMultiplier(scoreA, scoreB) * (ActualScore(scoreA, scoreB) - expected)
	return changeA, -changeA
}

// Regress pulls a rating toward the initial rating at a season boundary
func (p Params) Regress(rating float64) float64 {
	return rating*p.RegressionWeight + p.InitialRating*(1-p.RegressionWeight)
}

// WinProbability returns both teams' win probabilities from their ratings
func WinProbability(ra, rb float64) (probA, probB float64) {
	probA = ExpectedScore(ra, rb)
	return probA, 1 - probA
}

// WinProbabilityPercent returns the probabilities as percentages rounded to 2 places
func WinProbabilityPercent(ra, rb float64) (pctA, pctB float64) {
	probA, probB := WinProbability(ra, rb)
	return round(probA*100, 2), round(probB*100, 2)
}

// DisplayScore maps a rating onto 0-100, clamping to [1200, 1800]
func DisplayScore(rating float64) float64 {
	clamped := math.Max(DisplayFloor, math.Min(DisplayCeiling, rating))
	return (clamped - DisplayFloor) / (DisplayCeiling - DisplayFloor) * 100
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
