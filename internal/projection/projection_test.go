package projection

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProjectWinPct(t *testing.T) {
	p := NewPredictor(0, 0, 0)

	assert.InDelta(t, 0.57, p.ProjectWinPct(0.6), 1e-9)
	assert.InDelta(t, 0.5, p.ProjectWinPct(0.5), 1e-12)
	assert.InDelta(t, 0.15, p.ProjectWinPct(0), 1e-12)
}

func TestPredictNextSeason(t *testing.T) {
	p := NewPredictor(DefaultWeight, DefaultLeagueAvgRuns, 1.83)

	pred := p.PredictNextSeason(600, 500)

	assert.Equal(t, 0.5826, pred.CurrentWinPct)
	assert.InDelta(t, 0.5579, pred.ProjectedWinPct, 1e-4)
	assert.Equal(t, 582, pred.ProjectedRunsScored)
	assert.Equal(t, 512, pred.ProjectedRunsAllowed)
}

func TestPredictNextSeason_NoRuns(t *testing.T) {
	p := NewPredictor(DefaultWeight, DefaultLeagueAvgRuns, 0)

	pred := p.PredictNextSeason(0, 0)

	assert.Equal(t, 0.5, pred.CurrentWinPct)
	assert.Equal(t, 0.5, pred.ProjectedWinPct)
	assert.Equal(t, 162, pred.ProjectedRunsScored)
}

func TestRegressElo(t *testing.T) {
	p := NewPredictor(0, 0, 0)

	got := p.RegressElo(decimal.RequireFromString("1600"))
	assert.True(t, got.Equal(decimal.RequireFromString("1575")), got.String())

	p.WithElo(0.5, 1400)
	got = p.RegressElo(decimal.RequireFromString("1600"))
	assert.True(t, got.Equal(decimal.RequireFromString("1500")), got.String())
}
